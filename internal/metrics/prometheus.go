package metrics

import (
    "fmt"
    "sort"
    "strings"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    dto "github.com/prometheus/client_model/go"
)

// Recorder exports forest training and scoring metrics. It satisfies
// models.TrainObserver.
type Recorder struct {
    TreesTrained  prometheus.Counter
    TreeSeconds   prometheus.Histogram
    TreeDepth     prometheus.Histogram
    TreeLeaves    prometheus.Histogram
    Predictions   *prometheus.CounterVec
    PredictErrors prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
    r := &Recorder{
        TreesTrained: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "forest",
            Name:      "trees_trained_total",
            Help:      "Decision trees fitted.",
        }),
        TreeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
            Namespace: "forest",
            Name:      "tree_fit_seconds",
            Help:      "Time to bootstrap and fit one tree.",
            Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
        }),
        TreeDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
            Namespace: "forest",
            Name:      "tree_depth",
            Help:      "Depth of fitted trees.",
            Buckets:   prometheus.LinearBuckets(0, 2, 12),
        }),
        TreeLeaves: prometheus.NewHistogram(prometheus.HistogramOpts{
            Namespace: "forest",
            Name:      "tree_leaves",
            Help:      "Leaf count of fitted trees.",
            Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
        }),
        Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: "forest",
            Name:      "predictions_total",
            Help:      "Rows scored, by route.",
        }, []string{"route"}),
        PredictErrors: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "forest",
            Name:      "prediction_errors_total",
            Help:      "Rows that could not be scored.",
        }),
    }
    if reg != nil {
        reg.MustRegister(r.TreesTrained, r.TreeSeconds, r.TreeDepth, r.TreeLeaves, r.Predictions, r.PredictErrors)
    }
    return r
}

func (r *Recorder) TreeTrained(index, depth, leaves int, elapsed time.Duration) {
    r.TreesTrained.Inc()
    r.TreeSeconds.Observe(elapsed.Seconds())
    r.TreeDepth.Observe(float64(depth))
    r.TreeLeaves.Observe(float64(leaves))
}

func (r *Recorder) Predicted(route string, n int) {
    r.Predictions.WithLabelValues(route).Add(float64(n))
}

func (r *Recorder) Failed() { r.PredictErrors.Inc() }

// Snapshot flattens the counters, gauges and histograms gathered from g
// into sample names and values. Histograms contribute name_count and
// name_sum; labelled series are keyed as name{label="value"}.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
    families, err := g.Gather()
    if err != nil {
        return nil, fmt.Errorf("gather metrics: %w", err)
    }
    out := make(map[string]float64)
    for _, mf := range families {
        for _, m := range mf.GetMetric() {
            name := seriesName(mf.GetName(), m.GetLabel())
            switch mf.GetType() {
            case dto.MetricType_COUNTER:
                out[name] = m.GetCounter().GetValue()
            case dto.MetricType_GAUGE:
                out[name] = m.GetGauge().GetValue()
            case dto.MetricType_HISTOGRAM:
                h := m.GetHistogram()
                out[seriesName(mf.GetName()+"_count", m.GetLabel())] = float64(h.GetSampleCount())
                out[seriesName(mf.GetName()+"_sum", m.GetLabel())] = h.GetSampleSum()
            }
        }
    }
    return out, nil
}

func seriesName(name string, labels []*dto.LabelPair) string {
    if len(labels) == 0 {
        return name
    }
    pairs := make([]string, len(labels))
    for i, l := range labels {
        pairs[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
    }
    sort.Strings(pairs)
    return name + "{" + strings.Join(pairs, ",") + "}"
}
