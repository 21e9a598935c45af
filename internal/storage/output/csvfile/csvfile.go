package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/AgPipeline/ua-cwl-transformer/pkg/channel"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/logger"
)

// Number of tries to open a CSV file before we give up
const defaultMaxOpenTries = 10

// Maximum number of seconds a single wait for file open can take
const maxOpenSleep = 30 * time.Second

// SchemaMismatchError reports a data row whose arity does not match the
// channel header. The target file is left untouched.
type SchemaMismatchError struct {
	Path     string
	Expected int
	Got      int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch for %s: header has %d fields, row has %d", e.Path, e.Expected, e.Got)
}

// PathUnwritableError reports a permission or missing-directory failure on
// the target path. It is surfaced immediately, without retries.
type PathUnwritableError struct {
	Path string
	Err  error
}

func (e *PathUnwritableError) Error() string {
	return fmt.Sprintf("path %s is not writable: %v", e.Path, e.Err)
}

func (e *PathUnwritableError) Unwrap() error { return e.Err }

// Writer implements the generic.RowWriter interface on local CSV files.
//
// Every call opens the target in append mode and takes an exclusive advisory
// lock for the duration of the write, so independent processes sharing the
// path cannot duplicate the header or interleave partial rows. Rows are
// appended in arrival order; no ordering or deduplication across processes
// is attempted.
type Writer struct {
	// MaxOpenTries bounds the open retry loop for transient failures
	MaxOpenTries int
	// Sleep is swapped out by tests to avoid real backoff waits
	Sleep func(time.Duration)
}

// New creates a row writer with the default retry policy
func New() *Writer {
	return &Writer{
		MaxOpenTries: defaultMaxOpenTries,
		Sleep:        time.Sleep,
	}
}

// EnsureHeader creates the file with the channel header if it is absent or
// empty. Calling it again, from this or any other process, is a no-op.
func (w *Writer) EnsureHeader(path string, ch channel.Channel) error {
	file, lock, err := w.openLocked(path)
	if err != nil {
		return err
	}
	defer w.release(path, file, lock)

	return writeHeaderIfEmpty(file, path, ch)
}

// WriteRow appends one encoded data row, writing the header first when the
// file is new. The row arity is validated before the file is touched.
func (w *Writer) WriteRow(path string, ch channel.Channel, values []string) error {
	if len(values) != ch.Arity() {
		return &SchemaMismatchError{Path: path, Expected: ch.Arity(), Got: len(values)}
	}

	line, err := encode(values)
	if err != nil {
		return fmt.Errorf("encoding row for %s: %w", path, err)
	}

	file, lock, err := w.openLocked(path)
	if err != nil {
		return err
	}
	defer w.release(path, file, lock)

	if err := writeHeaderIfEmpty(file, path, ch); err != nil {
		return err
	}

	// One Write call per row so the append is a single atomic operation
	if _, err := file.Write(line); err != nil {
		return &PathUnwritableError{Path: path, Err: err}
	}
	return nil
}

// openLocked opens the file in atomic create-if-absent append mode and takes
// an exclusive flock on it. Transient open failures are retried with a
// randomized backoff; permission and missing-directory failures are not.
func (w *Writer) openLocked(path string) (*os.File, *flock.Flock, error) {
	var file *os.File
	var lastErr error
	backoff := time.Duration(0)

	tries := w.MaxOpenTries
	if tries < 1 {
		tries = 1
	}
	for try := 0; try < tries; try++ {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			file = f
			break
		}
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, nil, &PathUnwritableError{Path: path, Err: err}
		}
		lastErr = err

		if try < tries-1 {
			backoff = nextBackoff(backoff)
			logger.Info("sleeping for %s before trying to open CSV file %s again", backoff, path)
			w.Sleep(backoff)
		}
	}
	if file == nil {
		return nil, nil, &PathUnwritableError{Path: path, Err: lastErr}
	}

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return file, lock, nil
}

func (w *Writer) release(path string, file *os.File, lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		logger.Error("error unlocking CSV file %s: %v", path, err)
	}
	if err := file.Close(); err != nil {
		logger.Error("error closing CSV file %s: %v", path, err)
	}
}

// writeHeaderIfEmpty decides header-on-create from the size of the already
// opened, already locked descriptor, never from a separate stat, so two
// racing processes cannot both observe the file as absent.
func writeHeaderIfEmpty(file *os.File, path string, ch channel.Channel) error {
	info, err := file.Stat()
	if err != nil {
		return &PathUnwritableError{Path: path, Err: err}
	}
	if info.Size() > 0 {
		return nil
	}

	line, err := encode(ch.Header())
	if err != nil {
		return fmt.Errorf("encoding header for %s: %w", path, err)
	}
	if _, err := file.Write(line); err != nil {
		return &PathUnwritableError{Path: path, Err: err}
	}
	return nil
}

// encode renders one record as an RFC 4180 line, newline included
func encode(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(fields); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// nextBackoff returns how long to wait before the next open attempt. The
// first wait is always one second; later waits are randomized from the
// previous one and capped.
func nextBackoff(prev time.Duration) time.Duration {
	if prev == 0 {
		return time.Second
	}

	next := time.Duration(float64(prev) * rand.Float64() * 10)
	if next > maxOpenSleep {
		next = time.Duration(rand.Float64() * float64(10*time.Second))
	}
	if next < 100*time.Millisecond {
		next = 100 * time.Millisecond
	}
	return next
}
