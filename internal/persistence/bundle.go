package persistence

import (
    "encoding/gob"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/google/uuid"

    "randforest/internal/models"
)

var ErrEmptyBundle = errors.New("bundle has no trained forest")

type Metadata struct {
    Dataset      string              `json:"dataset"`
    Rows         int                 `json:"rows"`
    Cols         int                 `json:"cols"`
    Classes      int                 `json:"classes"`
    Accuracy     float64             `json:"accuracy"`
    TrainingTime time.Duration       `json:"training_time"`
    Config       models.ForestConfig `json:"config"`
}

type Bundle struct {
    ID        uuid.UUID            `json:"id"`
    CreatedAt time.Time            `json:"created_at"`
    Forest    *models.RandomForest `json:"-"`
    Metadata  Metadata             `json:"metadata"`
}

func NewBundle(rf *models.RandomForest, meta Metadata) *Bundle {
    meta.Config = rf.Config
    meta.Classes = len(rf.Classes)
    return &Bundle{ID: uuid.New(), CreatedAt: time.Now().UTC(), Forest: rf, Metadata: meta}
}

func (b *Bundle) Save(path string) error {
    if b.Forest == nil || len(b.Forest.Trees) == 0 {
        return ErrEmptyBundle
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return err
    }
    f, err := os.Create(path)
    if err != nil {
        return fmt.Errorf("failed to create bundle: %w", err)
    }
    if err := gob.NewEncoder(f).Encode(b); err != nil {
        f.Close()
        return fmt.Errorf("failed to encode bundle: %w", err)
    }
    return f.Close()
}

func Load(path string) (*Bundle, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, fmt.Errorf("failed to open bundle: %w", err)
    }
    defer f.Close()

    var b Bundle
    if err := gob.NewDecoder(f).Decode(&b); err != nil {
        return nil, fmt.Errorf("failed to decode bundle: %w", err)
    }
    if b.Forest == nil || len(b.Forest.Trees) == 0 {
        return nil, ErrEmptyBundle
    }
    return &b, nil
}
