package models

import (
    "errors"

    "randforest/internal/data"
)

var (
    ErrInvalidConfig     = errors.New("invalid configuration")
    ErrNotFitted         = errors.New("model is not fitted")
    ErrAlreadyFitted     = errors.New("model is already fitted")
    ErrFeatureOutOfRange = errors.New("row has fewer features than the training data")
    ErrEmptyDataset      = errors.New("empty training dataset")
    ErrClassMismatch     = errors.New("tree class outside the forest class table")
)

// Classifier predicts one class label per feature row.
type Classifier interface {
    Predict(row []float64) (int, error)
    Name() string
}

// Majority returns the class code with the highest count. Ties go to the
// lowest code, which is also the lowest label: counts are scanned in
// ascending order, first max wins.
func Majority(counts []int) int {
    best, bestCount := 0, -1
    for label, c := range counts {
        if c > bestCount {
            best, bestCount = label, c
        }
    }
    return best
}

func labelCounts(ds *data.Dataset, idx []int) []int {
    counts := make([]int, ds.NumClasses())
    for _, i := range idx {
        counts[ds.Code(i)]++
    }
    return counts
}
