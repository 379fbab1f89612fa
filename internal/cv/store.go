package cv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bcelik/personal-hub-backend/internal/telemetry/tracing"
)

var ErrNoCvUploaded = errors.New("no cv uploaded")

// FileInfo describes the currently uploaded CV file.
type FileInfo struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Store keeps at most one CV file on disk, under rootPath.
// A new upload replaces the previous file.
type Store struct {
	rootPath string
	mutex    sync.RWMutex
}

func NewStore(rootPath string) (*Store, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create cv root path: %w", err)
	}
	return &Store{
		rootPath: rootPath,
	}, nil
}

func (s *Store) Save(ctx context.Context, filename string, src io.Reader) (_ *FileInfo, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "cvStore.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	filename = path.Base(filename)
	if filename == "" || filename == "." || filename == "/" {
		return nil, errors.New("invalid filename")
	}
	span.SetAttributes(attribute.String("file.name", filename))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	previous, _ := s.currentFile()

	filePath := filepath.Join(s.rootPath, filename)
	dst, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, err
	}

	if previous != "" && previous != filename {
		if removeErr := os.Remove(filepath.Join(s.rootPath, previous)); removeErr != nil {
			log.Errorf("cv store: failed to remove previous cv [%s]: %s", previous, removeErr)
		}
	}

	log.Debugf("cv store: saved [%s], %d bytes", filename, size)

	return &FileInfo{
		Filename:   filename,
		Size:       size,
		UploadedAt: time.Now(),
	}, nil
}

func (s *Store) Info(ctx context.Context) (*FileInfo, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "cvStore.info")
	defer span.End()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.info()
}

// Open returns the CV file contents for download. The caller closes the reader.
func (s *Store) Open(ctx context.Context) (io.ReadCloser, *FileInfo, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "cvStore.open")
	defer span.End()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	info, err := s.info()
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.rootPath, info.Filename))
	if err != nil {
		return nil, nil, err
	}
	return f, info, nil
}

func (s *Store) Delete(ctx context.Context) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "cvStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	filename, err := s.currentFile()
	if err != nil {
		return err
	}
	if filename == "" {
		return ErrNoCvUploaded
	}
	return os.Remove(filepath.Join(s.rootPath, filename))
}

func (s *Store) info() (*FileInfo, error) {
	filename, err := s.currentFile()
	if err != nil {
		return nil, err
	}
	if filename == "" {
		return nil, ErrNoCvUploaded
	}

	stat, err := os.Stat(filepath.Join(s.rootPath, filename))
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Filename:   filename,
		Size:       stat.Size(),
		UploadedAt: stat.ModTime(),
	}, nil
}

func (s *Store) currentFile() (string, error) {
	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			return entry.Name(), nil
		}
	}
	return "", nil
}
