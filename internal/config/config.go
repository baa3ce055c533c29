package config

import (
    "errors"
    "fmt"
    "os"
    "strconv"

    "go.uber.org/multierr"
    "gopkg.in/yaml.v3"

    "randforest/internal/models"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
    Forest models.ForestConfig `yaml:"forest"`
    Data   DataConfig          `yaml:"data"`
    Server ServerConfig        `yaml:"server"`
}

type DataConfig struct {
    Path       string  `yaml:"path"`
    Header     bool    `yaml:"header"`
    SplitSeed  int64   `yaml:"split_seed"`
    TrainRatio float64 `yaml:"train_ratio"`
    Synthetic  struct {
        Rows    int   `yaml:"rows"`
        Cols    int   `yaml:"cols"`
        Classes int   `yaml:"classes"`
        Seed    int64 `yaml:"seed"`
    } `yaml:"synthetic"`
}

type ServerConfig struct {
    Port      string `yaml:"port"`
    APIKey    string `yaml:"api_key"`
    ModelPath string `yaml:"model_path"`
}

func Default() Config {
    c := Config{
        Forest: models.DefaultForestConfig(),
        Data: DataConfig{
            Path:       "data/synthetic.csv",
            SplitSeed:  45,
            TrainRatio: 0.8,
        },
        Server: ServerConfig{Port: "8080", ModelPath: "models/forest.gob"},
    }
    c.Data.Synthetic.Rows = 5000
    c.Data.Synthetic.Cols = 8
    c.Data.Synthetic.Classes = 3
    c.Data.Synthetic.Seed = 7
    return c
}

// Load reads path on top of Default() and then applies environment
// overrides. A missing file is not an error: defaults are returned.
func Load(path string) (Config, error) {
    c := Default()
    if path != "" {
        raw, err := os.ReadFile(path)
        switch {
        case errors.Is(err, os.ErrNotExist):
        case err != nil:
            return c, err
        default:
            if err := yaml.Unmarshal(raw, &c); err != nil {
                return c, fmt.Errorf("%s: %w", path, err)
            }
        }
    }
    if err := c.applyEnv(); err != nil {
        return c, err
    }
    return c, c.Validate()
}

func (c *Config) applyEnv() error {
    if v := os.Getenv("PORT"); v != "" {
        c.Server.Port = v
    }
    if v := os.Getenv("API_KEY"); v != "" {
        c.Server.APIKey = v
    }
    if v := os.Getenv("MODEL_PATH"); v != "" {
        c.Server.ModelPath = v
    }
    if v := os.Getenv("FOREST_WORKERS"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil {
            return fmt.Errorf("%w: FOREST_WORKERS=%q", ErrInvalid, v)
        }
        c.Forest.Workers = n
    }
    return nil
}

func (c Config) Validate() error {
    err := c.Forest.Validate()
    if c.Data.TrainRatio <= 0 || c.Data.TrainRatio >= 1 {
        err = multierr.Append(err, fmt.Errorf("%w: data.train_ratio %v not in (0, 1)", ErrInvalid, c.Data.TrainRatio))
    }
    s := c.Data.Synthetic
    if s.Rows < 1 || s.Cols < 1 || s.Classes < 1 {
        err = multierr.Append(err, fmt.Errorf("%w: data.synthetic needs rows, cols and classes >= 1", ErrInvalid))
    }
    if c.Server.Port == "" {
        err = multierr.Append(err, fmt.Errorf("%w: server.port is empty", ErrInvalid))
    }
    return err
}
