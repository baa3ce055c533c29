package data

import (
    "fmt"
    "math/rand"
)

// Generate builds a synthetic classification problem: each class gets a
// random centre in [-spread, spread]^cols and rows are drawn around it with
// unit Gaussian noise. Classes are assigned round-robin so every class is
// present when rows >= classes.
func Generate(rows, cols, classes int, seed int64) (*Dataset, error) {
    if rows <= 0 || cols <= 0 {
        return nil, ErrEmpty
    }
    if classes < 1 {
        return nil, fmt.Errorf("%w: need at least one class, got %d", ErrShape, classes)
    }
    r := rand.New(rand.NewSource(seed))
    const spread = 4.0
    centres := make([][]float64, classes)
    for k := range centres {
        centres[k] = make([]float64, cols)
        for c := range centres[k] {
            centres[k][c] = (r.Float64()*2 - 1) * spread
        }
    }

    features := make([]float64, rows*cols)
    labels := make([]int, rows)
    for i := 0; i < rows; i++ {
        k := i % classes
        labels[i] = k
        for c := 0; c < cols; c++ {
            features[c*rows+i] = centres[k][c] + r.NormFloat64()
        }
    }
    return New(features, labels, rows, cols)
}
