package data

import (
    "errors"
    "fmt"
    "sort"
)

var (
    ErrEmpty         = errors.New("empty dataset")
    ErrShape         = errors.New("inconsistent dataset shape")
    ErrNegativeLabel = errors.New("negative class label")
    ErrRatio         = errors.New("train ratio must be in (0, 1)")
    ErrParse         = errors.New("malformed record")
)

// Dataset is a read-only table of numeric features and integer labels.
//
// Features are stored column-major in a single buffer: the value of row r,
// column c lives at c*rows + r, so every feature is contiguous.
//
// Labels are kept as dense class codes 0..NumClasses()-1. Classes() maps a
// code back to its label and is sorted ascending, so the lowest code is the
// lowest label.
type Dataset struct {
    features []float64
    codes    []int
    classes  []int
    rows     int
    cols     int
}

// FromRows transposes row-major input into a Dataset.
func FromRows(X [][]float64, y []int) (*Dataset, error) {
    if len(X) != len(y) {
        return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShape, len(X), len(y))
    }
    if len(X) == 0 || len(X[0]) == 0 {
        return nil, ErrEmpty
    }
    rows, cols := len(X), len(X[0])
    features := make([]float64, rows*cols)
    for r, row := range X {
        if len(row) != cols {
            return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, r, len(row), cols)
        }
        for c, v := range row {
            features[c*rows+r] = v
        }
    }
    return newDataset(features, y, rows, cols)
}

// New adopts an already column-major buffer. features is owned by the
// Dataset afterwards and must not be modified by the caller; labels is only
// read.
func New(features []float64, labels []int, rows, cols int) (*Dataset, error) {
    if rows <= 0 || cols <= 0 {
        return nil, ErrEmpty
    }
    if len(features) != rows*cols || len(labels) != rows {
        return nil, fmt.Errorf("%w: %d values and %d labels for %dx%d", ErrShape, len(features), len(labels), rows, cols)
    }
    return newDataset(features, labels, rows, cols)
}

func newDataset(features []float64, labels []int, rows, cols int) (*Dataset, error) {
    seen := make(map[int]int)
    for r, l := range labels {
        if l < 0 {
            return nil, fmt.Errorf("%w: row %d has label %d", ErrNegativeLabel, r, l)
        }
        seen[l] = 0
    }
    classes := make([]int, 0, len(seen))
    for l := range seen {
        classes = append(classes, l)
    }
    sort.Ints(classes)
    for code, l := range classes {
        seen[l] = code
    }
    codes := make([]int, len(labels))
    for r, l := range labels {
        codes[r] = seen[l]
    }
    return &Dataset{features: features, codes: codes, classes: classes, rows: rows, cols: cols}, nil
}

func (d *Dataset) Rows() int { return d.rows }

func (d *Dataset) Cols() int { return d.cols }

// NumClasses is the number of distinct labels; codes index a histogram of
// this size.
func (d *Dataset) NumClasses() int { return len(d.classes) }

// Classes maps class codes to labels. It is shared; do not modify.
func (d *Dataset) Classes() []int { return d.classes }

func (d *Dataset) At(r, c int) float64 { return d.features[c*d.rows+r] }

// Code is the dense class code of row r.
func (d *Dataset) Code(r int) int { return d.codes[r] }

func (d *Dataset) Label(r int) int { return d.classes[d.codes[r]] }

// Labels decodes every row label into a fresh slice.
func (d *Dataset) Labels() []int {
    out := make([]int, d.rows)
    for r, code := range d.codes {
        out[r] = d.classes[code]
    }
    return out
}

// Column returns the contiguous values of feature c. The slice aliases the
// Dataset buffer; do not modify.
func (d *Dataset) Column(c int) []float64 {
    off := c * d.rows
    return d.features[off : off+d.rows : off+d.rows]
}

// Row gathers row r into a fresh slice.
func (d *Dataset) Row(r int) []float64 {
    out := make([]float64, d.cols)
    for c := range out {
        out[c] = d.features[c*d.rows+r]
    }
    return out
}

// Subset gathers the given rows, in order, into a new Dataset. Indices may
// repeat. One contiguous copy is made per column.
func (d *Dataset) Subset(indices []int) *Dataset {
    n := len(indices)
    features := make([]float64, n*d.cols)
    codes := make([]int, n)
    for j, i := range indices {
        codes[j] = d.codes[i]
    }
    for c := 0; c < d.cols; c++ {
        src := d.Column(c)
        dst := features[c*n : (c+1)*n]
        for j, i := range indices {
            dst[j] = src[i]
        }
    }
    // keep the parent's class table so codes stay comparable across subsets
    return &Dataset{features: features, codes: codes, classes: d.classes, rows: n, cols: d.cols}
}
