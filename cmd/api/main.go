package main

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "go.uber.org/zap"

    "randforest/internal/api"
    "randforest/internal/config"
    "randforest/internal/metrics"
    "randforest/internal/persistence"
    "randforest/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    cfg, err := config.Load("config/forest.yaml")
    if err != nil { logger.Fatal("Falha ao carregar configuração", zap.Error(err)) }

    b, err := persistence.Load(cfg.Server.ModelPath)
    if err != nil { logger.Fatal("Falha ao carregar modelo", zap.String("path", cfg.Server.ModelPath), zap.Error(err)) }
    logger.Info("Modelo carregado",
        zap.String("path", cfg.Server.ModelPath),
        zap.String("id", b.ID.String()),
        zap.Int("trees", len(b.Forest.Trees)),
        zap.Float64("accuracy", b.Metadata.Accuracy),
    )

    reg := prometheus.NewRegistry()
    reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    r := api.NewRouter(b, api.Options{
        APIKey:   cfg.Server.APIKey,
        Logger:   logger,
        Recorder: metrics.NewRecorder(reg),
        Gatherer: reg,
    })

    addr := ":" + cfg.Server.Port
    logger.Info("API ouvindo", zap.String("addr", addr))
    if err := r.Run(addr); err != nil { logger.Fatal("Servidor encerrado", zap.Error(err)) }
}
