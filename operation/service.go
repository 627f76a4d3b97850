package operation

import (
	"context"
	"fmt"
)

// StagedFile 待上传的内存文件
type StagedFile struct {
	Name        string
	Data        []byte
	ContentType string
}

// Result is the outcome for one input file, in input order.
// URL is empty when the file was not stored; Err then carries the reason if
// one is known.
type Result struct {
	Name string
	Key  string
	URL  string
	Size int64
	Err  error
}

// ResultError is a per-file failure reported by the upload service.
type ResultError struct {
	Code    string
	Message string
}

func (e *ResultError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Service uploads a batch of staged files with one API key. Implementations
// return one result per file in submission order, or an error when the batch
// failed as a whole.
type Service interface {
	Upload(ctx context.Context, apiKey string, files []StagedFile) ([]Result, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, apiKey string, files []StagedFile) ([]Result, error)

func (f ServiceFunc) Upload(ctx context.Context, apiKey string, files []StagedFile) ([]Result, error) {
	return f(ctx, apiKey, files)
}
