package evaluation

import (
    "fmt"
    "sort"
    "time"

    "gonum.org/v1/gonum/floats"
    "gonum.org/v1/gonum/stat"

    "randforest/internal/data"
    "randforest/internal/models"
)

func Accuracy(y, p []int) float64 {
    if len(y) == 0 {
        return 0
    }
    c := 0
    for i := range y {
        if y[i] == p[i] {
            c++
        }
    }
    return float64(c) / float64(len(y))
}

// ConfusionMatrix returns m where m[i][j] counts rows with actual label
// classes[i] predicted as classes[j]. classes lists the known labels in
// ascending order; labels in y or p outside it are appended in ascending
// order, and the full table is returned alongside m.
func ConfusionMatrix(y, p []int, classes []int) ([][]int, []int) {
    index := make(map[int]int, len(classes))
    table := append([]int(nil), classes...)
    for i, l := range table {
        index[l] = i
    }
    var extra []int
    for _, xs := range [][]int{y, p} {
        for _, l := range xs {
            if _, ok := index[l]; !ok {
                index[l] = -1
                extra = append(extra, l)
            }
        }
    }
    sort.Ints(extra)
    for _, l := range extra {
        index[l] = len(table)
        table = append(table, l)
    }

    m := make([][]int, len(table))
    for i := range m {
        m[i] = make([]int, len(table))
    }
    for i := range y {
        m[index[y[i]]][index[p[i]]]++
    }
    return m, table
}

type Report struct {
    Model       string        `json:"model"`
    Rows        int           `json:"rows"`
    Correct     int           `json:"correct"`
    Accuracy    float64       `json:"accuracy"`
    Classes     []int         `json:"classes"`
    Recall      []float64     `json:"recall"`
    Confusion   [][]int       `json:"confusion"`
    Predictions []int         `json:"-"`
    Elapsed     time.Duration `json:"elapsed"`
}

// Evaluate predicts every row of ds with clf and scores the result.
func Evaluate(clf models.Classifier, ds *data.Dataset) (Report, error) {
    start := time.Now()
    preds := make([]int, ds.Rows())
    for r := range preds {
        p, err := clf.Predict(ds.Row(r))
        if err != nil {
            return Report{}, fmt.Errorf("%s row %d: %w", clf.Name(), r, err)
        }
        preds[r] = p
    }
    elapsed := time.Since(start)

    y := ds.Labels()
    cm, classes := ConfusionMatrix(y, preds, ds.Classes())
    recall := make([]float64, len(cm))
    correct := 0
    for k, row := range cm {
        correct += row[k]
        if support := floats.Sum(intsToFloats(row)); support > 0 {
            recall[k] = float64(row[k]) / support
        }
    }
    return Report{
        Model:       clf.Name(),
        Rows:        ds.Rows(),
        Correct:     correct,
        Classes:     classes,
        Accuracy:    Accuracy(y, preds),
        Recall:      recall,
        Confusion:   cm,
        Predictions: preds,
        Elapsed:     elapsed,
    }, nil
}

type Summary struct {
    N      int     `json:"n"`
    Mean   float64 `json:"mean"`
    StdDev float64 `json:"stddev"`
    Min    float64 `json:"min"`
    Max    float64 `json:"max"`
}

// Summarize describes repeated measurements such as accuracies over seeds.
func Summarize(values []float64) Summary {
    if len(values) == 0 {
        return Summary{}
    }
    s := Summary{N: len(values), Min: floats.Min(values), Max: floats.Max(values)}
    if len(values) == 1 {
        s.Mean = values[0]
        return s
    }
    s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
    return s
}

func intsToFloats(xs []int) []float64 {
    out := make([]float64, len(xs))
    for i, x := range xs {
        out[i] = float64(x)
    }
    return out
}
