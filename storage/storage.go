package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTTL         = 24 * time.Hour
	DefaultCacheDir    = "data/cache"
	DefaultAliasesFile = "data/aliases.json"
)

var (
	ErrEmptyPath = errors.New("storage path is empty")
)

type (
	BaseConfig struct {
		Logger *zap.Logger
	}
	RateCacheConfig struct {
		BaseConfig
		Dir string
		TTL time.Duration
		Now func() time.Time
	}
)

func readJSON(path string, v interface{}) error {
	file, err := os.Open(path)

	if err != nil {
		return err
	}

	defer file.Close()

	return json.NewDecoder(file).Decode(v)
}

// writeJSON replaces path by writing a sibling temp file and renaming it.
func writeJSON(path string, v interface{}) (err error) {
	data, err := json.MarshalIndent(v, "", "    ")

	if err != nil {
		return err
	}

	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")

	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}
