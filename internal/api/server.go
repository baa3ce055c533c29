package api

import (
    "errors"
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "go.uber.org/zap"

    "randforest/internal/metrics"
    "randforest/internal/models"
    "randforest/internal/persistence"
)

type Options struct {
    APIKey   string
    Logger   *zap.Logger
    Recorder *metrics.Recorder
    Gatherer prometheus.Gatherer
}

type server struct {
    bundle *persistence.Bundle
    opts   Options
}

type predictReq struct {
    Features []float64 `json:"features" binding:"required"`
}

type batchReq struct {
    Rows [][]float64 `json:"rows" binding:"required"`
}

// prediction carries votes per class; Votes[k] counts trees voting Classes[k].
type prediction struct {
    Label   int     `json:"label"`
    Classes []int   `json:"classes"`
    Votes   []int   `json:"votes"`
    Score   float64 `json:"score"`
}

// NewRouter serves the forest in b. Scoring routes require the X-API-Key
// header when opts.APIKey is set.
func NewRouter(b *persistence.Bundle, opts Options) *gin.Engine {
    if opts.Logger == nil {
        opts.Logger = zap.NewNop()
    }
    if opts.Recorder == nil {
        opts.Recorder = metrics.NewRecorder(nil)
    }
    s := &server{bundle: b, opts: opts}

    r := gin.New()
    r.Use(gin.Recovery(), s.logRequests)
    r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
    if opts.Gatherer != nil {
        r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
    }

    api := r.Group("/")
    api.Use(s.apiKey)
    api.GET("/model", s.handleModel)
    api.POST("/predict", s.handlePredict)
    api.POST("/batch", s.handleBatch)
    return r
}

func (s *server) logRequests(c *gin.Context) {
    start := time.Now()
    c.Next()
    s.opts.Logger.Debug("request",
        zap.String("method", c.Request.Method),
        zap.String("path", c.FullPath()),
        zap.Int("status", c.Writer.Status()),
        zap.Duration("elapsed", time.Since(start)),
    )
}

func (s *server) apiKey(c *gin.Context) {
    if s.opts.APIKey == "" {
        c.Next()
        return
    }
    if c.GetHeader("X-API-Key") != s.opts.APIKey {
        c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
        return
    }
    c.Next()
}

func (s *server) handleModel(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{
        "id":         s.bundle.ID.String(),
        "created_at": s.bundle.CreatedAt,
        "model":      s.bundle.Forest.Name(),
        "trees":      len(s.bundle.Forest.Trees),
        "metadata":   s.bundle.Metadata,
    })
}

func (s *server) predict(row []float64) (prediction, error) {
    rf := s.bundle.Forest
    votes, err := rf.Votes(row)
    if err != nil {
        return prediction{}, err
    }
    k := models.Majority(votes)
    return prediction{
        Label:   rf.Classes[k],
        Classes: rf.Classes,
        Votes:   votes,
        Score:   float64(votes[k]) / float64(len(rf.Trees)),
    }, nil
}

func (s *server) handlePredict(c *gin.Context) {
    var req predictReq
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
        return
    }
    p, err := s.predict(req.Features)
    if err != nil {
        s.fail(c, err)
        return
    }
    s.opts.Recorder.Predicted("predict", 1)
    c.JSON(http.StatusOK, p)
}

func (s *server) handleBatch(c *gin.Context) {
    var req batchReq
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
        return
    }
    out := make([]prediction, len(req.Rows))
    for i, row := range req.Rows {
        p, err := s.predict(row)
        if err != nil {
            s.fail(c, err, zap.Int("row", i))
            return
        }
        out[i] = p
    }
    s.opts.Recorder.Predicted("batch", len(out))
    c.JSON(http.StatusOK, gin.H{"predictions": out})
}

func (s *server) fail(c *gin.Context, err error, fields ...zap.Field) {
    s.opts.Recorder.Failed()
    s.opts.Logger.Warn("prediction failed", append(fields, zap.Error(err))...)
    if errors.Is(err, models.ErrFeatureOutOfRange) {
        c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
