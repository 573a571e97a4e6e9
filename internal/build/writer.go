package build

import (
	"context"
	"os"

	"github.com/spf13/afero"

	"github.com/conneroisu/docsite/internal/errors"
	"github.com/conneroisu/docsite/internal/logging"
)

const (
	// DefaultMkdirRetries is how many times directory creation is retried
	// after the first failure.
	DefaultMkdirRetries = 1

	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// DirectoryWriter persists rendered pages. Concurrent generation tasks may
// race to create the same parent directory; a failed MkdirAll is retried a
// bounded number of times before the failure is treated as fatal.
type DirectoryWriter struct {
	fs      afero.Fs
	retries int
	logger  logging.Logger
}

// NewDirectoryWriter creates a writer on fs. A negative retries count falls
// back to DefaultMkdirRetries.
func NewDirectoryWriter(fs afero.Fs, retries int, logger logging.Logger) *DirectoryWriter {
	if retries < 0 {
		retries = DefaultMkdirRetries
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DirectoryWriter{
		fs:      fs,
		retries: retries,
		logger:  logger.WithComponent("writer"),
	}
}

// Persist ensures dir exists and writes text to path, replacing any previous
// content. A directory that still cannot be created after the retries yields
// a fatal error; a failed write yields a page-level write error.
func (w *DirectoryWriter) Persist(ctx context.Context, path, dir, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.ensureDir(ctx, dir); err != nil {
		return err
	}

	if err := afero.WriteFile(w.fs, path, []byte(text), filePerm); err != nil {
		return errors.NewWriteError(path, err)
	}

	return nil
}

func (w *DirectoryWriter) ensureDir(ctx context.Context, dir string) error {
	attempts := w.retries + 1

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = w.fs.MkdirAll(dir, dirPerm); err == nil {
			return nil
		}
		if attempt < attempts {
			w.logger.Debug(ctx, "Retrying directory creation",
				logging.KeyPath, dir,
				logging.KeyAttempt, attempt,
				"error", err.Error(),
			)
		}
	}

	return errors.NewDirectoryCreateError(dir, attempts, err)
}
