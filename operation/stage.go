package operation

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Stager reads local files into StagedFile values.
type Stager struct {
	fs          billy.Basic
	concurrency int
}

// NewStager creates a stager over the host filesystem.
func NewStager(concurrency int) *Stager {
	return &Stager{fs: osfs.New("/"), concurrency: concurrency}
}

// NewStagerWithFilesystem creates a stager reading absolute paths from fs.
func NewStagerWithFilesystem(fs billy.Basic, concurrency int) *Stager {
	return &Stager{fs: fs, concurrency: concurrency}
}

// StageOutcome holds either the staged file or the read error for one path.
type StageOutcome struct {
	File StagedFile
	Err  error
}

// Stage reads every path in parallel. The returned slice follows the order of
// names. The first read failure cancels the remaining reads and is returned as
// a *FileReadError.
func (s *Stager) Stage(ctx context.Context, names []string) ([]StagedFile, error) {
	staged := make([]StagedFile, len(names))
	pool := newGoroutinePool(readConcurrency(s.concurrency, len(names)))
	for i, name := range names {
		i, name := i, name
		pool.Go(func(ctx context.Context) (err error) {
			staged[i], err = s.stageOne(ctx, name)
			return
		})
	}
	if err := pool.Wait(ctx); err != nil {
		return nil, err
	}
	return staged, nil
}

// StageEach reads every path in parallel and keeps going past failures; each
// outcome carries its own error.
func (s *Stager) StageEach(ctx context.Context, names []string) ([]StageOutcome, error) {
	outcomes := make([]StageOutcome, len(names))
	pool := newGoroutinePool(readConcurrency(s.concurrency, len(names)))
	for i, name := range names {
		i, name := i, name
		pool.Go(func(ctx context.Context) error {
			file, err := s.stageOne(ctx, name)
			outcomes[i] = StageOutcome{File: file, Err: err}
			return nil
		})
	}
	if err := pool.Wait(ctx); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (s *Stager) stageOne(ctx context.Context, name string) (StagedFile, error) {
	if err := ctx.Err(); err != nil {
		return StagedFile{}, err
	}
	t := time.Now()

	fullPath, err := filepath.Abs(name)
	if err != nil {
		return StagedFile{}, &FileReadError{Name: name, Path: name, Err: err}
	}
	data, err := s.readFile(fullPath)
	if err != nil {
		return StagedFile{}, &FileReadError{Name: name, Path: fullPath, Err: err}
	}

	contentType := detectContentType(name, data)
	elog.Debug("staged", name, len(data), contentType, time.Since(t))
	return StagedFile{Name: name, Data: data, ContentType: contentType}, nil
}

func (s *Stager) readFile(path string) ([]byte, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// detectContentType sniffs data with mimetype and falls back to the extension
// table when sniffing only finds generic binary. Unknown types yield "".
func detectContentType(name string, data []byte) string {
	if len(data) > 0 {
		if mt := mimetype.Detect(data); mt != nil && !mt.Is("application/octet-stream") {
			return mt.String()
		}
	}
	return mime.TypeByExtension(filepath.Ext(name))
}
