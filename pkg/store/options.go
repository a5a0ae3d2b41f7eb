package store

import (
	"log/slog"
	"os"
	"time"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// Recorder receives an event after each successful mutation.
type Recorder interface {
	Record(event model.Event) error
}

// storeConfig holds configuration for the Store.
type storeConfig struct {
	now            func() time.Time
	logger         *slog.Logger
	recorder       Recorder
	recoverCorrupt bool
	dirPerm        os.FileMode
	filePerm       os.FileMode
}

func defaultStoreConfig() storeConfig {
	return storeConfig{
		now:            time.Now,
		recoverCorrupt: true,
		dirPerm:        0o755,
		filePerm:       0o644,
	}
}

// Option configures a Store instance.
type Option func(*storeConfig)

// WithClock overrides the source of created_at values.
func WithClock(now func() time.Time) Option {
	return func(c *storeConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for warnings. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// WithRecorder attaches an activity recorder.
func WithRecorder(r Recorder) Option {
	return func(c *storeConfig) {
		c.recorder = r
	}
}

// WithCorruptRecovery controls whether a corrupt data file is moved aside and
// replaced by an empty collection (true, the default) or reported as ErrCorruptData.
func WithCorruptRecovery(enabled bool) Option {
	return func(c *storeConfig) {
		c.recoverCorrupt = enabled
	}
}

// WithFilePermissions sets the permissions of the data file. Default is 0o644.
func WithFilePermissions(perm os.FileMode) Option {
	return func(c *storeConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the permissions of created directories. Default is 0o755.
func WithDirPermissions(perm os.FileMode) Option {
	return func(c *storeConfig) {
		c.dirPerm = perm
	}
}
