package data

import (
    "bytes"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestFromRowsColumnMajor(t *testing.T) {
    ds, err := FromRows([][]float64{{1, 10}, {2, 20}, {3, 30}}, []int{0, 1, 2})
    require.NoError(t, err)

    assert.Equal(t, 3, ds.Rows())
    assert.Equal(t, 2, ds.Cols())
    assert.Equal(t, 3, ds.NumClasses())
    assert.Equal(t, []float64{1, 2, 3, 10, 20, 30}, ds.features)
    assert.Equal(t, []float64{10, 20, 30}, ds.Column(1))
    assert.Equal(t, []float64{2, 20}, ds.Row(1))
    assert.Equal(t, 30.0, ds.At(2, 1))
    assert.Equal(t, 2, ds.Label(2))
}

func TestFromRowsCopiesInput(t *testing.T) {
    X := [][]float64{{1}, {2}}
    y := []int{0, 1}
    ds, err := FromRows(X, y)
    require.NoError(t, err)
    X[0][0] = 99
    y[0] = 5
    assert.Equal(t, 1.0, ds.At(0, 0))
    assert.Equal(t, 0, ds.Label(0))
}

func TestSparseLabelsAreEncoded(t *testing.T) {
    ds, err := FromRows([][]float64{{1}, {2}, {3}, {4}}, []int{2_000_000, 0, 2_000_000, 7})
    require.NoError(t, err)

    assert.Equal(t, 3, ds.NumClasses())
    assert.Equal(t, []int{0, 7, 2_000_000}, ds.Classes())
    assert.Equal(t, []int{2, 0, 2, 1}, ds.codes)
    assert.Equal(t, 2_000_000, ds.Label(0))
    assert.Equal(t, 1, ds.Code(3))
    assert.Equal(t, []int{2_000_000, 0, 2_000_000, 7}, ds.Labels())

    sub := ds.Subset([]int{0, 0})
    assert.Equal(t, 3, sub.NumClasses())
    assert.Equal(t, []int{2, 2}, sub.codes)
    assert.Equal(t, []int{2_000_000, 2_000_000}, sub.Labels())
}

func TestFromRowsErrors(t *testing.T) {
    tests := []struct {
        name string
        X    [][]float64
        y    []int
        want error
    }{
        {"mismatch", [][]float64{{1}}, []int{0, 1}, ErrShape},
        {"empty", nil, nil, ErrEmpty},
        {"no columns", [][]float64{{}}, []int{0}, ErrEmpty},
        {"ragged", [][]float64{{1, 2}, {3}}, []int{0, 1}, ErrShape},
        {"negative", [][]float64{{1}, {2}}, []int{0, -1}, ErrNegativeLabel},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            _, err := FromRows(tt.X, tt.y)
            assert.ErrorIs(t, err, tt.want)
        })
    }
}

func TestNewValidatesLengths(t *testing.T) {
    _, err := New([]float64{1, 2, 3}, []int{0, 1}, 2, 2)
    assert.ErrorIs(t, err, ErrShape)
    _, err = New(nil, nil, 0, 1)
    assert.ErrorIs(t, err, ErrEmpty)

    ds, err := New([]float64{1, 2, 3, 4}, []int{0, 1}, 2, 2)
    require.NoError(t, err)
    assert.Equal(t, []float64{2, 4}, ds.Row(1))
}

func TestBootstrapReproducible(t *testing.T) {
    ds, err := Generate(200, 3, 4, 7)
    require.NoError(t, err)

    a := ds.Bootstrap(41)
    b := ds.Bootstrap(41)
    c := ds.Bootstrap(42)

    assert.Equal(t, ds.Rows(), a.Rows())
    assert.Equal(t, ds.Cols(), a.Cols())
    assert.Equal(t, a.features, b.features)
    assert.Equal(t, a.codes, b.codes)
    assert.NotEqual(t, a.features, c.features)
}

func TestBootstrapGathersWholeRows(t *testing.T) {
    // every column of a row carries the row number, so a gathered row must be uniform
    X := make([][]float64, 50)
    y := make([]int, 50)
    for i := range X {
        X[i] = []float64{float64(i), float64(i), float64(i)}
        y[i] = i % 3
    }
    ds, err := FromRows(X, y)
    require.NoError(t, err)

    bs := ds.Bootstrap(3)
    for r := 0; r < bs.Rows(); r++ {
        row := bs.Row(r)
        assert.Equal(t, row[0], row[1])
        assert.Equal(t, row[0], row[2])
        assert.Equal(t, int(row[0])%3, bs.Label(r))
    }
}

func TestSplit(t *testing.T) {
    ds, err := Generate(100, 2, 2, 1)
    require.NoError(t, err)

    train, test, err := ds.Split(45, 0.8)
    require.NoError(t, err)
    assert.Equal(t, 80, train.Rows())
    assert.Equal(t, 20, test.Rows())

    train2, _, err := ds.Split(45, 0.8)
    require.NoError(t, err)
    assert.Equal(t, train.features, train2.features)

    _, _, err = ds.Split(45, 1)
    assert.ErrorIs(t, err, ErrRatio)
    _, _, err = ds.Split(45, 0.001)
    assert.ErrorIs(t, err, ErrEmpty)
}

func TestHead(t *testing.T) {
    ds, err := FromRows([][]float64{{1}, {2}, {3}}, []int{0, 1, 0})
    require.NoError(t, err)
    h := ds.Head(2)
    assert.Equal(t, 2, h.Rows())
    assert.Equal(t, []float64{1, 2}, h.Column(0))
    assert.Same(t, ds, ds.Head(10))
}

func TestReadCSV(t *testing.T) {
    in := "a,b,label\n1.5,2,0\n\n3,4.25,1.0\n"
    ds, err := ReadCSV(strings.NewReader(in), true)
    require.NoError(t, err)
    assert.Equal(t, 2, ds.Rows())
    assert.Equal(t, []float64{1.5, 3}, ds.Column(0))
    assert.Equal(t, []int{0, 1}, ds.Labels())

    huge, err := ReadCSV(strings.NewReader("1,1e18\n2,0\n"), false)
    require.NoError(t, err)
    assert.Equal(t, []int{0, 1_000_000_000_000_000_000}, huge.Classes())

    _, err = ReadCSV(strings.NewReader("1,x,0\n"), false)
    assert.ErrorIs(t, err, ErrParse)
    _, err = ReadCSV(strings.NewReader("1\n"), false)
    assert.ErrorIs(t, err, ErrParse)
    _, err = ReadCSV(strings.NewReader("1,2,0\n3,1\n"), false)
    assert.ErrorIs(t, err, ErrShape)
}

func TestCSVRoundTrip(t *testing.T) {
    ds, err := Generate(30, 4, 3, 9)
    require.NoError(t, err)

    var buf bytes.Buffer
    require.NoError(t, WriteCSV(&buf, ds))
    back, err := ReadCSV(&buf, false)
    require.NoError(t, err)
    assert.Equal(t, ds.features, back.features)
    assert.Equal(t, ds.Labels(), back.Labels())

    path := filepath.Join(t.TempDir(), "sub", "ds.csv")
    require.NoError(t, SaveCSV(path, ds))
    loaded, err := LoadCSV(path, false)
    require.NoError(t, err)
    assert.Equal(t, ds.Labels(), loaded.Labels())
}

func TestGenerate(t *testing.T) {
    ds, err := Generate(10, 2, 3, 5)
    require.NoError(t, err)
    assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0, 1, 2, 0}, ds.Labels())
    assert.Equal(t, 3, ds.NumClasses())

    again, err := Generate(10, 2, 3, 5)
    require.NoError(t, err)
    assert.Equal(t, ds.features, again.features)

    _, err = Generate(10, 2, 0, 5)
    assert.ErrorIs(t, err, ErrShape)
}
