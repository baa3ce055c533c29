package utils

import (
    "os"
    "path/filepath"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// Logger returns the process logger. LOG_LEVEL picks the level (default
// info) and LOG_FILE, when set, tees JSON output into that file.
func Logger() *zap.Logger {
    if logger != nil { return logger }
    logger = newLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE"))
    return logger
}

func newLogger(level, logFile string) *zap.Logger {
    lvl := zapcore.InfoLevel
    if level != "" {
        if l, err := zapcore.ParseLevel(level); err == nil { lvl = l }
    }
    enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
    consoleCore := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl)
    if logFile == "" {
        return zap.New(consoleCore)
    }
    _ = os.MkdirAll(filepath.Dir(logFile), 0o755)
    f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return zap.New(consoleCore)
    }
    fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), lvl)
    return zap.New(zapcore.NewTee(fileCore, consoleCore))
}
