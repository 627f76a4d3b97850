package operation

import (
	"context"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
)

// Uploader 上传器
type Uploader struct {
	service   Service
	stager    *Stager
	keepGoing bool
}

// NewUploader 根据配置创建上传器
func NewUploader(c *Config, service Service) *Uploader {
	return &Uploader{
		service: service,
		stager:  NewStager(c.ReadConcurrency),
	}
}

// SetFilesystem replaces the filesystem files are read from.
func (p *Uploader) SetFilesystem(fs billy.Basic) {
	p.stager.fs = fs
}

// SetKeepGoing controls what an unreadable file does to the batch. By default
// the whole batch is aborted. With keepGoing the file is reported as a failed
// Result and the readable files are still uploaded.
func (p *Uploader) SetKeepGoing(keepGoing bool) {
	p.keepGoing = keepGoing
}

// Upload stages names and uploads them in one service call. Results follow
// the order of names.
func (p *Uploader) Upload(ctx context.Context, token string, names []string) ([]Result, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingCredential
	}
	if len(names) == 0 {
		return nil, ErrNoFiles
	}

	if !p.keepGoing {
		staged, err := p.stager.Stage(ctx, names)
		if err != nil {
			return nil, err
		}
		return p.uploadStaged(ctx, token, staged)
	}

	outcomes, err := p.stager.StageEach(ctx, names)
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(names))
	staged := make([]StagedFile, 0, len(names))
	indexes := make([]int, 0, len(names))
	for i, outcome := range outcomes {
		if outcome.Err != nil {
			elog.Warn("skip unreadable file", names[i], outcome.Err)
			results[i] = Result{Name: names[i], Err: outcome.Err}
			continue
		}
		staged = append(staged, outcome.File)
		indexes = append(indexes, i)
	}
	if len(staged) == 0 {
		return results, nil
	}

	uploaded, err := p.uploadStaged(ctx, token, staged)
	if err != nil {
		return nil, err
	}
	for j, i := range indexes {
		results[i] = uploaded[j]
	}
	return results, nil
}

// UploadFile is Upload for exactly one path.
func (p *Uploader) UploadFile(ctx context.Context, token string, name string) (*Result, error) {
	results, err := p.Upload(ctx, token, []string{name})
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

func (p *Uploader) uploadStaged(ctx context.Context, token string, staged []StagedFile) ([]Result, error) {
	t := time.Now()
	results, err := p.service.Upload(ctx, token, staged)
	if err != nil {
		elog.Error("upload failed", len(staged), err)
		return nil, &ServiceError{Err: err}
	}
	if len(results) != len(staged) {
		return nil, &ProtocolMismatchError{Sent: len(staged), Received: len(results)}
	}
	// report by the name the caller used, not the one the service stored
	for i := range results {
		results[i].Name = staged[i].Name
	}
	elog.Debug("uploaded", len(staged), time.Since(t))
	return results, nil
}
