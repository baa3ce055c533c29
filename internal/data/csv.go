package data

import (
    "encoding/csv"
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strconv"
    "strings"
)

// ReadCSV parses records of the form f0,f1,...,fn,label. The label is parsed
// as a number and truncated to an int. Blank lines are skipped; when header
// is set the first record is skipped too.
func ReadCSV(r io.Reader, header bool) (*Dataset, error) {
    cr := csv.NewReader(r)
    cr.FieldsPerRecord = -1
    cr.TrimLeadingSpace = true

    var X [][]float64
    var y []int
    first := true
    for {
        rec, err := cr.Read()
        if errors.Is(err, io.EOF) {
            break
        }
        if err != nil {
            return nil, fmt.Errorf("%w: %v", ErrParse, err)
        }
        if first && header {
            first = false
            continue
        }
        first = false
        line, _ := cr.FieldPos(0)
        if len(rec) < 2 {
            return nil, fmt.Errorf("%w: line %d has %d fields, want at least 2", ErrParse, line, len(rec))
        }
        row := make([]float64, len(rec)-1)
        for i, s := range rec[:len(rec)-1] {
            v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
            if err != nil {
                return nil, fmt.Errorf("%w: line %d field %d: %v", ErrParse, line, i, err)
            }
            row[i] = v
        }
        lv, err := strconv.ParseFloat(strings.TrimSpace(rec[len(rec)-1]), 64)
        if err != nil {
            return nil, fmt.Errorf("%w: line %d label: %v", ErrParse, line, err)
        }
        X = append(X, row)
        y = append(y, int(lv))
    }
    return FromRows(X, y)
}

func LoadCSV(path string, header bool) (*Dataset, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, err
    }
    defer f.Close()
    ds, err := ReadCSV(f, header)
    if err != nil {
        return nil, fmt.Errorf("%s: %w", path, err)
    }
    return ds, nil
}

// WriteCSV writes one record per row, label last, without a header.
func WriteCSV(w io.Writer, d *Dataset) error {
    cw := csv.NewWriter(w)
    rec := make([]string, d.cols+1)
    for r := 0; r < d.rows; r++ {
        for c := 0; c < d.cols; c++ {
            rec[c] = strconv.FormatFloat(d.At(r, c), 'g', -1, 64)
        }
        rec[d.cols] = strconv.Itoa(d.Label(r))
        if err := cw.Write(rec); err != nil {
            return err
        }
    }
    cw.Flush()
    return cw.Error()
}

func SaveCSV(path string, d *Dataset) error {
    if dir := filepath.Dir(path); dir != "" {
        if err := os.MkdirAll(dir, 0o755); err != nil {
            return err
        }
    }
    f, err := os.Create(path)
    if err != nil {
        return err
    }
    if err := WriteCSV(f, d); err != nil {
        f.Close()
        return err
    }
    return f.Close()
}
