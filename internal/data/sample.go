package data

import (
    "fmt"
    "math/rand"
)

// Bootstrap draws Rows() indices uniformly with replacement from a source
// seeded with seed and gathers them into a new Dataset of the same size.
// The same seed on the same Dataset always yields the same sample.
func (d *Dataset) Bootstrap(seed int64) *Dataset {
    r := rand.New(rand.NewSource(seed))
    idx := make([]int, d.rows)
    for i := range idx {
        idx[i] = r.Intn(d.rows)
    }
    return d.Subset(idx)
}

// Split shuffles the rows with seed and puts the first int(rows*trainRatio)
// of them in train and the rest in test.
func (d *Dataset) Split(seed int64, trainRatio float64) (train, test *Dataset, err error) {
    if trainRatio <= 0 || trainRatio >= 1 {
        return nil, nil, fmt.Errorf("%w: got %v", ErrRatio, trainRatio)
    }
    nTrain := int(float64(d.rows) * trainRatio)
    if nTrain == 0 || nTrain == d.rows {
        return nil, nil, fmt.Errorf("%w: %d rows at ratio %v leaves an empty side", ErrEmpty, d.rows, trainRatio)
    }
    perm := rand.New(rand.NewSource(seed)).Perm(d.rows)
    return d.Subset(perm[:nTrain]), d.Subset(perm[nTrain:]), nil
}

// Head returns the first n rows, or the whole Dataset if n >= Rows().
func (d *Dataset) Head(n int) *Dataset {
    if n >= d.rows {
        return d
    }
    idx := make([]int, n)
    for i := range idx {
        idx[i] = i
    }
    return d.Subset(idx)
}
