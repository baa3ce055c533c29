package evaluation

import (
    "encoding/csv"
    "fmt"
    "math"
    "os"
    "path/filepath"
    "strconv"
    "time"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/plotutil"
    "gonum.org/v1/plot/vg"

    "randforest/internal/data"
    "randforest/internal/models"
)

type CurvePoint struct {
    Size      int
    TrainAcc  float64
    TestAcc   float64
    TestStd   float64
    TrainTime float64
}

// CurveSizes returns up to points training sizes from start to total,
// spaced linearly or, with useLog, geometrically. Sizes are strictly
// increasing and end at total; a start below 10 is raised to 10 and one above
// total is halved from total. total < 1 yields nil.
func CurveSizes(total, points, start int, useLog bool) []int {
    if total < 1 {
        return nil
    }
    points = max(points, 2)
    lo := float64(max(start, 10))
    if int(lo) > total {
        lo = math.Max(1, float64(total/2))
    }
    hi := float64(total)
    at := func(frac float64) float64 { return lo + frac*(hi-lo) }
    if useLog {
        at = func(frac float64) float64 { return lo * math.Pow(hi/lo, frac) }
    }

    out := make([]int, 0, points)
    for i := 0; i < points; i++ {
        s := int(math.Round(at(float64(i) / float64(points-1))))
        if n := len(out); n > 0 {
            s = max(s, out[n-1]+1)
            if s > total {
                break
            }
        }
        out = append(out, min(s, total))
    }
    if out[len(out)-1] != total {
        out = append(out, total)
    }
    return out
}

// LearningCurve trains one forest per (size, run) pair on the first size rows
// of train and scores it on train[:size] and test. Run r uses cfg.Seed+r*1000
// as its base seed.
func LearningCurve(cfg models.ForestConfig, train, test *data.Dataset, sizes []int, runs int, opts ...models.Option) ([]CurvePoint, error) {
    if runs < 1 {
        runs = 1
    }
    out := make([]CurvePoint, 0, len(sizes))
    for _, s := range sizes {
        sub := train.Head(s)
        var trainAcc, testAcc, secs []float64
        for r := 0; r < runs; r++ {
            c := cfg
            c.Seed = cfg.Seed + int64(r)*1000
            rf, err := models.NewRandomForest(c, opts...)
            if err != nil {
                return nil, err
            }
            start := time.Now()
            if err := rf.Train(sub); err != nil {
                return nil, fmt.Errorf("size %d run %d: %w", s, r, err)
            }
            secs = append(secs, time.Since(start).Seconds())
            tr, err := Evaluate(rf, sub)
            if err != nil {
                return nil, err
            }
            te, err := Evaluate(rf, test)
            if err != nil {
                return nil, err
            }
            trainAcc = append(trainAcc, tr.Accuracy)
            testAcc = append(testAcc, te.Accuracy)
        }
        ts := Summarize(testAcc)
        out = append(out, CurvePoint{
            Size:      sub.Rows(),
            TrainAcc:  Summarize(trainAcc).Mean,
            TestAcc:   ts.Mean,
            TestStd:   ts.StdDev,
            TrainTime: Summarize(secs).Mean,
        })
    }
    return out, nil
}

func WriteCurveCSV(path string, points []CurvePoint) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return err
    }
    f, err := os.Create(path)
    if err != nil {
        return err
    }
    defer f.Close()
    w := csv.NewWriter(f)
    if err := w.Write([]string{"size", "train_acc", "test_acc", "test_std", "train_seconds"}); err != nil {
        return err
    }
    for _, p := range points {
        rec := []string{strconv.Itoa(p.Size), fmt.Sprintf("%.6f", p.TrainAcc), fmt.Sprintf("%.6f", p.TestAcc),
            fmt.Sprintf("%.6f", p.TestStd), fmt.Sprintf("%.6f", p.TrainTime)}
        if err := w.Write(rec); err != nil {
            return err
        }
    }
    w.Flush()
    return w.Error()
}

func PlotCurve(path string, points []CurvePoint) error {
    p := plot.New()
    p.Title.Text = "Learning curve"
    p.X.Label.Text = "Training rows"
    p.Y.Label.Text = "Accuracy"
    p.Y.Min = 0
    p.Y.Max = 1

    train := make(plotter.XYs, len(points))
    test := make(plotter.XYs, len(points))
    for i, pt := range points {
        train[i].X, train[i].Y = float64(pt.Size), pt.TrainAcc
        test[i].X, test[i].Y = float64(pt.Size), pt.TestAcc
    }
    if err := plotutil.AddLinePoints(p, "Train", train, "Test", test); err != nil {
        return err
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return err
    }
    return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
