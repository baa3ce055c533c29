package models

import (
    "fmt"
    "runtime"
    "time"

    "go.uber.org/multierr"
    "go.uber.org/zap"
    "golang.org/x/sync/errgroup"

    "randforest/internal/data"
)

type ForestConfig struct {
    NumTrees int   `yaml:"num_trees" json:"num_trees"`
    MaxDepth int   `yaml:"max_depth" json:"max_depth"`
    MinSize  int   `yaml:"min_size" json:"min_size"`
    Seed     int64 `yaml:"seed" json:"seed"`
    // Workers bounds concurrent tree builds; 0 means runtime.NumCPU().
    Workers int `yaml:"workers" json:"workers"`
}

func DefaultForestConfig() ForestConfig {
    return ForestConfig{NumTrees: 10, MaxDepth: 10, MinSize: 2, Seed: 41}
}

func (c ForestConfig) Validate() error {
    var err error
    if c.NumTrees < 1 {
        err = multierr.Append(err, fmt.Errorf("%w: num_trees %d < 1", ErrInvalidConfig, c.NumTrees))
    }
    if c.MaxDepth < 0 {
        err = multierr.Append(err, fmt.Errorf("%w: max_depth %d < 0", ErrInvalidConfig, c.MaxDepth))
    }
    if c.MinSize < 1 {
        err = multierr.Append(err, fmt.Errorf("%w: min_size %d < 1", ErrInvalidConfig, c.MinSize))
    }
    if c.Workers < 0 {
        err = multierr.Append(err, fmt.Errorf("%w: workers %d < 0", ErrInvalidConfig, c.Workers))
    }
    return err
}

// TrainObserver is notified once per finished tree, from the worker that
// built it, so implementations must be safe for concurrent use.
type TrainObserver interface {
    TreeTrained(index, depth, leaves int, elapsed time.Duration)
}

type Option func(*RandomForest)

func WithLogger(l *zap.Logger) Option {
    return func(rf *RandomForest) { rf.logger = l }
}

func WithObserver(o TrainObserver) Option {
    return func(rf *RandomForest) { rf.observer = o }
}

type RandomForest struct {
    Config ForestConfig
    // Classes maps class codes to labels; every tree shares it.
    Classes  []int
    Trees    []*DecisionTree
    logger   *zap.Logger
    observer TrainObserver
}

func NewRandomForest(cfg ForestConfig, opts ...Option) (*RandomForest, error) {
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    rf := &RandomForest{Config: cfg, logger: zap.NewNop()}
    for _, opt := range opts {
        opt(rf)
    }
    return rf, nil
}

func (rf *RandomForest) Name() string { return "RandomForest" }

// Train fits Config.NumTrees trees, tree i on a bootstrap of ds seeded with
// Config.Seed+i. Trees are built concurrently but each one depends only on
// its own seed, so the result does not depend on Config.Workers.
func (rf *RandomForest) Train(ds *data.Dataset) error {
    if len(rf.Trees) > 0 {
        return ErrAlreadyFitted
    }
    if ds == nil || ds.Rows() == 0 {
        return ErrEmptyDataset
    }
    workers := rf.Config.Workers
    if workers == 0 {
        workers = runtime.NumCPU()
    }
    log := rf.logger
    if log == nil {
        log = zap.NewNop()
    }
    log.Info("training forest",
        zap.Int("trees", rf.Config.NumTrees),
        zap.Int("rows", ds.Rows()),
        zap.Int("cols", ds.Cols()),
        zap.Int("workers", workers),
    )

    start := time.Now()
    trees := make([]*DecisionTree, rf.Config.NumTrees)
    var g errgroup.Group
    g.SetLimit(workers)
    for i := range trees {
        g.Go(func() error {
            t0 := time.Now()
            tree, err := NewDecisionTree(rf.Config.MaxDepth, rf.Config.MinSize)
            if err != nil {
                return err
            }
            if err := tree.Fit(ds.Bootstrap(rf.Config.Seed + int64(i))); err != nil {
                return fmt.Errorf("tree %d: %w", i, err)
            }
            trees[i] = tree
            elapsed := time.Since(t0)
            d, l := tree.Depth(), tree.Leaves()
            if rf.observer != nil {
                rf.observer.TreeTrained(i, d, l, elapsed)
            }
            log.Debug("tree trained", zap.Int("tree", i), zap.Int("depth", d), zap.Int("leaves", l), zap.Duration("elapsed", elapsed))
            if (i+1)%10 == 0 {
                log.Info("progress", zap.Int("tree", i+1), zap.Int("of", len(trees)))
            }
            return nil
        })
    }
    if err := g.Wait(); err != nil {
        return err
    }
    rf.Trees = trees
    rf.Classes = ds.Classes()
    log.Info("forest trained", zap.Duration("elapsed", time.Since(start)))
    return nil
}

// Votes returns, per class code, how many trees predicted it for row. Code
// k stands for label Classes[k].
func (rf *RandomForest) Votes(row []float64) ([]int, error) {
    if len(rf.Trees) == 0 {
        return nil, ErrNotFitted
    }
    votes := make([]int, len(rf.Classes))
    for i, t := range rf.Trees {
        if t == nil || t.Root == nil {
            return nil, fmt.Errorf("tree %d: %w", i, ErrNotFitted)
        }
        if len(row) < t.NFeatures {
            return nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureOutOfRange, len(row), t.NFeatures)
        }
        code := t.classOf(row)
        if code >= len(votes) {
            return nil, fmt.Errorf("%w: tree %d class %d, forest has %d", ErrClassMismatch, i, code, len(votes))
        }
        votes[code]++
    }
    return votes, nil
}

// Predict returns the label with the most votes; ties go to the lowest label.
func (rf *RandomForest) Predict(row []float64) (int, error) {
    votes, err := rf.Votes(row)
    if err != nil {
        return 0, err
    }
    return rf.Classes[Majority(votes)], nil
}

func (rf *RandomForest) PredictDataset(ds *data.Dataset) ([]int, error) {
    out := make([]int, ds.Rows())
    for r := range out {
        p, err := rf.Predict(ds.Row(r))
        if err != nil {
            return nil, fmt.Errorf("row %d: %w", r, err)
        }
        out[r] = p
    }
    return out, nil
}
