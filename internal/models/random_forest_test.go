package models

import (
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/multierr"
    "go.uber.org/zap/zaptest"

    "randforest/internal/data"
)

type countingObserver struct {
    mu      sync.Mutex
    indices []int
}

func (o *countingObserver) TreeTrained(index, depth, leaves int, elapsed time.Duration) {
    o.mu.Lock()
    defer o.mu.Unlock()
    o.indices = append(o.indices, index)
}

func TestForestConfigValidate(t *testing.T) {
    assert.NoError(t, DefaultForestConfig().Validate())

    err := ForestConfig{NumTrees: 0, MaxDepth: -1, MinSize: 0}.Validate()
    require.Error(t, err)
    assert.ErrorIs(t, err, ErrInvalidConfig)
    assert.Len(t, multierr.Errors(err), 3)

    _, err = NewRandomForest(ForestConfig{NumTrees: 1, MaxDepth: 1, MinSize: 1, Workers: -2})
    assert.ErrorIs(t, err, ErrInvalidConfig)
}

func constantTree(classes []int, code int) *DecisionTree {
    return &DecisionTree{MaxDepth: 1, MinSize: 1, NFeatures: 1, Classes: classes, Root: leaf(code)}
}

func TestForestMajorityVote(t *testing.T) {
    classes := []int{0, 1}
    rf := &RandomForest{Classes: classes, Trees: []*DecisionTree{
        constantTree(classes, 1), constantTree(classes, 0), constantTree(classes, 1),
    }}

    p, err := rf.Predict([]float64{0})
    require.NoError(t, err)
    assert.Equal(t, 1, p)

    votes, err := rf.Votes([]float64{0})
    require.NoError(t, err)
    assert.Equal(t, []int{1, 2}, votes)

    // tie between labels 4 and 9 goes to the lower label
    classes = []int{4, 6, 9}
    tie := &RandomForest{Classes: classes, Trees: []*DecisionTree{constantTree(classes, 2), constantTree(classes, 0)}}
    for i := 0; i < 5; i++ {
        p, err := tie.Predict([]float64{0})
        require.NoError(t, err)
        assert.Equal(t, 4, p)
    }
}

func TestForestVotesRejectsBrokenTrees(t *testing.T) {
    classes := []int{0, 1}
    unfitted := &RandomForest{Classes: classes, Trees: []*DecisionTree{
        constantTree(classes, 0), {NFeatures: 1, Classes: classes},
    }}
    _, err := unfitted.Votes([]float64{0})
    assert.ErrorIs(t, err, ErrNotFitted)

    nilTree := &RandomForest{Classes: classes, Trees: []*DecisionTree{nil}}
    _, err = nilTree.Votes([]float64{0})
    assert.ErrorIs(t, err, ErrNotFitted)

    outside := &RandomForest{Classes: []int{0}, Trees: []*DecisionTree{constantTree(classes, 1)}}
    _, err = outside.Predict([]float64{0})
    assert.ErrorIs(t, err, ErrClassMismatch)

    wide := &RandomForest{Classes: classes, Trees: []*DecisionTree{
        constantTree(classes, 0), {NFeatures: 3, Classes: classes, Root: leaf(1)},
    }}
    _, err = wide.Votes([]float64{0})
    assert.ErrorIs(t, err, ErrFeatureOutOfRange)
}

func TestForestSparseLabels(t *testing.T) {
    X := make([][]float64, 64)
    y := make([]int, 64)
    for i := range X {
        X[i] = []float64{float64(i)}
        if i%2 == 1 && i > 20 {
            y[i] = 2_000_000
        }
    }
    ds, err := data.FromRows(X, y)
    require.NoError(t, err)
    rf, err := NewRandomForest(ForestConfig{NumTrees: 5, MaxDepth: 10, MinSize: 1, Seed: 41, Workers: 2})
    require.NoError(t, err)
    require.NoError(t, rf.Train(ds))

    assert.Equal(t, []int{0, 2_000_000}, rf.Classes)
    for _, tree := range rf.Trees {
        assert.Equal(t, rf.Classes, tree.Classes)
    }
    for i, row := range X {
        votes, err := rf.Votes(row)
        require.NoError(t, err)
        assert.Len(t, votes, 2)
        p, err := rf.Predict(row)
        require.NoError(t, err)
        assert.Contains(t, []int{0, 2_000_000}, p, "row %d", i)
    }
}

func TestForestTrainAndPredict(t *testing.T) {
    ds, err := data.Generate(400, 4, 3, 21)
    require.NoError(t, err)
    train, test, err := ds.Split(45, 0.8)
    require.NoError(t, err)

    obs := &countingObserver{}
    rf, err := NewRandomForest(ForestConfig{NumTrees: 15, MaxDepth: 10, MinSize: 2, Seed: 41, Workers: 3},
        WithLogger(zaptest.NewLogger(t)), WithObserver(obs))
    require.NoError(t, err)
    require.NoError(t, rf.Train(train))

    assert.Len(t, rf.Trees, 15)
    assert.Equal(t, []int{0, 1, 2}, rf.Classes)
    assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, obs.indices)

    preds, err := rf.PredictDataset(test)
    require.NoError(t, err)
    correct := 0
    for i, p := range preds {
        if p == test.Label(i) {
            correct++
        }
    }
    assert.Greater(t, float64(correct)/float64(len(preds)), 0.7)

    assert.ErrorIs(t, rf.Train(train), ErrAlreadyFitted)
    _, err = rf.Predict([]float64{1, 2})
    assert.ErrorIs(t, err, ErrFeatureOutOfRange)
}

func TestForestParallelMatchesSequential(t *testing.T) {
    ds, err := data.Generate(150, 3, 4, 5)
    require.NoError(t, err)

    build := func(workers int) *RandomForest {
        rf, err := NewRandomForest(ForestConfig{NumTrees: 12, MaxDepth: 8, MinSize: 2, Seed: 41, Workers: workers})
        require.NoError(t, err)
        require.NoError(t, rf.Train(ds))
        return rf
    }
    seq := build(1)
    par := build(4)
    again := build(1)

    require.Len(t, par.Trees, len(seq.Trees))
    for i := range seq.Trees {
        assert.Equal(t, seq.Trees[i], par.Trees[i], "tree %d", i)
        assert.Equal(t, seq.Trees[i], again.Trees[i], "tree %d", i)
    }
}

func TestForestTreesDiffer(t *testing.T) {
    ds, err := data.Generate(150, 3, 4, 5)
    require.NoError(t, err)
    rf, err := NewRandomForest(ForestConfig{NumTrees: 2, MaxDepth: 8, MinSize: 2, Seed: 41, Workers: 1})
    require.NoError(t, err)
    require.NoError(t, rf.Train(ds))
    assert.NotEqual(t, rf.Trees[0], rf.Trees[1])
}

func TestForestErrors(t *testing.T) {
    rf, err := NewRandomForest(DefaultForestConfig())
    require.NoError(t, err)
    _, err = rf.Predict([]float64{1})
    assert.ErrorIs(t, err, ErrNotFitted)
    assert.ErrorIs(t, rf.Train(nil), ErrEmptyDataset)
}
