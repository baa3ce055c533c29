package main

import (
    "flag"
    "fmt"
    "os"
    "sort"
    "time"

    "github.com/fatih/color"
    "github.com/prometheus/client_golang/prometheus"
    "go.uber.org/zap"

    "randforest/internal/config"
    "randforest/internal/data"
    "randforest/internal/evaluation"
    "randforest/internal/metrics"
    "randforest/internal/models"
    "randforest/internal/persistence"
    "randforest/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    cfgPath := flag.String("config", "config/forest.yaml", "Arquivo de configuração YAML")
    dataPath := flag.String("data", "", "CSV de entrada (features..., label)")
    header := flag.Bool("header", false, "CSV possui linha de cabeçalho")
    regen := flag.Bool("regen", false, "Regenerar dataset sintético em -data")
    rows := flag.Int("rows", 0, "Linhas do dataset sintético")
    cols := flag.Int("cols", 0, "Features do dataset sintético")
    classes := flag.Int("classes", 0, "Classes do dataset sintético")
    trees := flag.Int("trees", 0, "Número de árvores")
    maxDepth := flag.Int("max_depth", 0, "Profundidade máxima da árvore")
    minSize := flag.Int("min_size", 0, "Tamanho mínimo de nó para split")
    seed := flag.Int64("seed", 0, "Semente base do bootstrap")
    splitSeed := flag.Int64("split_seed", 0, "Semente do split treino/teste")
    trainRatio := flag.Float64("train_ratio", 0, "Fração de treino")
    workers := flag.Int("workers", 0, "Workers de treino (0 = NumCPU)")
    out := flag.String("out", "", "Caminho do modelo salvo")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil { logger.Fatal("Falha ao carregar configuração", zap.Error(err)) }

    // explicitly set flags win over the file
    flag.Visit(func(f *flag.Flag) {
        switch f.Name {
        case "data": cfg.Data.Path = *dataPath
        case "header": cfg.Data.Header = *header
        case "rows": cfg.Data.Synthetic.Rows = *rows
        case "cols": cfg.Data.Synthetic.Cols = *cols
        case "classes": cfg.Data.Synthetic.Classes = *classes
        case "trees": cfg.Forest.NumTrees = *trees
        case "max_depth": cfg.Forest.MaxDepth = *maxDepth
        case "min_size": cfg.Forest.MinSize = *minSize
        case "seed": cfg.Forest.Seed = *seed
        case "split_seed": cfg.Data.SplitSeed = *splitSeed
        case "train_ratio": cfg.Data.TrainRatio = *trainRatio
        case "workers": cfg.Forest.Workers = *workers
        case "out": cfg.Server.ModelPath = *out
        }
    })
    if err := cfg.Validate(); err != nil { logger.Fatal("Configuração inválida", zap.Error(err)) }

    _, statErr := os.Stat(cfg.Data.Path)
    if *regen || os.IsNotExist(statErr) {
        syn := cfg.Data.Synthetic
        logger.Info("Gerando dataset sintético",
            zap.Int("rows", syn.Rows), zap.Int("cols", syn.Cols), zap.Int("classes", syn.Classes),
            zap.String("out", cfg.Data.Path))
        ds, err := data.Generate(syn.Rows, syn.Cols, syn.Classes, syn.Seed)
        if err != nil { logger.Fatal("Falha ao gerar dataset", zap.Error(err)) }
        if err := data.SaveCSV(cfg.Data.Path, ds); err != nil { logger.Fatal("Falha ao salvar dataset", zap.Error(err)) }
        cfg.Data.Header = false
    }

    start := time.Now()
    ds, err := data.LoadCSV(cfg.Data.Path, cfg.Data.Header)
    if err != nil { logger.Fatal("Falha ao ler CSV", zap.Error(err)) }
    loadTime := time.Since(start)
    logger.Info("Dataset carregado",
        zap.String("path", cfg.Data.Path),
        zap.Int("rows", ds.Rows()), zap.Int("cols", ds.Cols()), zap.Int("classes", ds.NumClasses()),
        zap.Duration("elapsed", loadTime))

    train, test, err := ds.Split(cfg.Data.SplitSeed, cfg.Data.TrainRatio)
    if err != nil { logger.Fatal("Falha ao dividir dataset", zap.Error(err)) }
    logger.Info("Split treino/teste", zap.Int("train", train.Rows()), zap.Int("test", test.Rows()))

    reg := prometheus.NewRegistry()
    rec := metrics.NewRecorder(reg)
    rf, err := models.NewRandomForest(cfg.Forest, models.WithLogger(logger), models.WithObserver(rec))
    if err != nil { logger.Fatal("Configuração da floresta inválida", zap.Error(err)) }

    start = time.Now()
    if err := rf.Train(train); err != nil { logger.Fatal("Falha ao treinar floresta", zap.Error(err)) }
    trainTime := time.Since(start)
    logTrainingMetrics(logger, reg)

    rep, err := evaluation.Evaluate(rf, test)
    if err != nil { logger.Fatal("Falha ao avaliar", zap.Error(err)) }
    logger.Info("Métricas holdout",
        zap.String("model", rep.Model),
        zap.Float64("accuracy", rep.Accuracy),
        zap.Int("correct", rep.Correct),
        zap.Int("rows", rep.Rows),
        zap.Ints("classes", rep.Classes),
        zap.Float64s("recall", rep.Recall),
        zap.Duration("train_time", trainTime),
        zap.Duration("predict_time", rep.Elapsed),
    )

    b := persistence.NewBundle(rf, persistence.Metadata{
        Dataset:      cfg.Data.Path,
        Rows:         ds.Rows(),
        Cols:         ds.Cols(),
        Accuracy:     rep.Accuracy,
        TrainingTime: trainTime,
    })
    if err := b.Save(cfg.Server.ModelPath); err != nil { logger.Fatal("Falha ao salvar modelo", zap.Error(err)) }
    logger.Info("Modelo salvo", zap.String("path", cfg.Server.ModelPath), zap.String("id", b.ID.String()))

    printSummary(b, rep, loadTime, trainTime)
}

func logTrainingMetrics(logger *zap.Logger, g prometheus.Gatherer) {
    snap, err := metrics.Snapshot(g)
    if err != nil {
        logger.Warn("Falha ao coletar métricas de treino", zap.Error(err))
        return
    }
    names := make([]string, 0, len(snap))
    for name := range snap {
        names = append(names, name)
    }
    sort.Strings(names)
    fields := make([]zap.Field, len(names))
    for i, name := range names {
        fields[i] = zap.Float64(name, snap[name])
    }
    logger.Info("Métricas de treino", fields...)
}

func printSummary(b *persistence.Bundle, rep evaluation.Report, loadTime, trainTime time.Duration) {
    title := color.New(color.FgCyan, color.Bold)
    label := color.New(color.FgWhite)
    good := color.New(color.FgGreen, color.Bold)
    warn := color.New(color.FgYellow, color.Bold)

    title.Println("Random Forest")
    cfg := b.Forest.Config
    label.Printf("  árvores     %d (max_depth=%d, min_size=%d, seed=%d)\n", len(b.Forest.Trees), cfg.MaxDepth, cfg.MinSize, cfg.Seed)
    label.Printf("  carga       %v\n", loadTime.Round(time.Millisecond))
    label.Printf("  treino      %v\n", trainTime.Round(time.Millisecond))
    label.Printf("  predição    %v (%d linhas)\n", rep.Elapsed.Round(time.Microsecond), rep.Rows)
    acc := good
    if rep.Accuracy < 0.7 { acc = warn }
    acc.Printf("  acurácia    %.4f\n", rep.Accuracy)
    for k, r := range rep.Recall {
        label.Printf("  recall[%d]   %.4f\n", rep.Classes[k], r)
    }
    fmt.Println("  modelo     ", b.ID)
}
