package main

import (
    "flag"
    "os"

    "go.uber.org/zap"

    "randforest/internal/config"
    "randforest/internal/data"
    "randforest/internal/evaluation"
    "randforest/internal/models"
    "randforest/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    cfgPath := flag.String("config", "config/forest.yaml", "Arquivo de configuração YAML")
    dataPath := flag.String("data", "", "CSV de entrada (vazio = caminho da configuração)")
    points := flag.Int("points", 8, "Quantidade de pontos na curva")
    runs := flag.Int("runs", 3, "Repetições por ponto (sementes distintas)")
    minSize := flag.Int("min", 100, "Tamanho mínimo inicial da curva")
    useLog := flag.Bool("log", false, "Usar escala logarítmica para os tamanhos")
    outImg := flag.String("out_img", "data/learning_curve.png", "PNG de saída")
    outCsv := flag.String("out_csv", "data/learning_curve.csv", "CSV de saída")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil { logger.Fatal("Falha ao carregar configuração", zap.Error(err)) }
    if *dataPath != "" { cfg.Data.Path = *dataPath }

    ds, err := loadOrGenerate(cfg.Data)
    if err != nil { logger.Fatal("Falha ao obter dataset", zap.Error(err)) }
    train, test, err := ds.Split(cfg.Data.SplitSeed, cfg.Data.TrainRatio)
    if err != nil { logger.Fatal("Falha ao dividir dataset", zap.Error(err)) }

    sizes := evaluation.CurveSizes(train.Rows(), *points, *minSize, *useLog)
    logger.Info("Curva de aprendizagem",
        zap.Ints("sizes", sizes), zap.Int("runs", *runs), zap.Int("trees", cfg.Forest.NumTrees))

    curve, err := evaluation.LearningCurve(cfg.Forest, train, test, sizes, *runs, models.WithLogger(logger.Named("forest").WithOptions(zap.IncreaseLevel(zap.WarnLevel))))
    if err != nil { logger.Fatal("Falha ao treinar no ponto da curva", zap.Error(err)) }

    testAcc := make([]float64, len(curve))
    for i, p := range curve {
        testAcc[i] = p.TestAcc
        logger.Info("Ponto da curva",
            zap.Int("size", p.Size),
            zap.Float64("train_acc", p.TrainAcc),
            zap.Float64("test_acc", p.TestAcc),
            zap.Float64("test_std", p.TestStd),
            zap.Float64("train_seconds", p.TrainTime),
        )
    }
    s := evaluation.Summarize(testAcc)
    logger.Info("Resumo",
        zap.Float64("mean_test_acc", s.Mean), zap.Float64("min", s.Min), zap.Float64("max", s.Max))

    if err := evaluation.WriteCurveCSV(*outCsv, curve); err != nil {
        logger.Warn("Falha ao salvar CSV da curva", zap.Error(err))
    }
    if err := evaluation.PlotCurve(*outImg, curve); err != nil {
        logger.Warn("Falha ao salvar PNG da curva", zap.Error(err))
    } else {
        logger.Info("Curva de aprendizagem gerada", zap.String("png", *outImg), zap.String("csv", *outCsv))
    }
}

func loadOrGenerate(dc config.DataConfig) (*data.Dataset, error) {
    if _, err := os.Stat(dc.Path); err == nil {
        return data.LoadCSV(dc.Path, dc.Header)
    }
    syn := dc.Synthetic
    return data.Generate(syn.Rows, syn.Cols, syn.Classes, syn.Seed)
}
