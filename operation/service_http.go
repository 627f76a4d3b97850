package operation

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/service-sdk/upcli/x/rpc.v7"
)

const (
	uploadPath      = "/upload"
	apiKeyHeader    = "X-Api-Key"
	defaultPartType = "application/octet-stream"
)

type httpService struct {
	apiURL  string
	timeout time.Duration
	client  rpc.Client
}

// NewHTTPService 根据配置创建 HTTP 上传服务
func NewHTTPService(c *Config) Service {
	return &httpService{
		apiURL:  c.ApiBaseURL(),
		timeout: buildDurationByMs(c.TimeoutMs, DefaultConfigTimeoutMs),
		client:  rpc.Client{Client: &http.Client{Transport: getHttpClientTransport(c)}},
	}
}

type (
	uploadResponseItem struct {
		Data  *uploadedFile `json:"data"`
		Error *uploadError  `json:"error"`
	}

	uploadedFile struct {
		Key  string `json:"key"`
		URL  string `json:"url"`
		Name string `json:"name"`
		Size int64  `json:"size"`
	}

	uploadError struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
)

func (s *httpService) Upload(ctx context.Context, apiKey string, files []StagedFile) ([]Result, error) {
	t := time.Now()
	defer func() {
		elog.Info("up time ", len(files), time.Since(t))
	}()

	body, contentType, err := buildMultipartBody(files)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set(apiKeyHeader, apiKey)

	var ret []uploadResponseItem
	err = s.client.CallWith(ctx, &ret, http.MethodPost, s.apiURL+uploadPath, contentType,
		body, int64(body.Len()), header, s.timeout)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(ret))
	for i, item := range ret {
		if item.Data != nil {
			results[i] = Result{
				Name: item.Data.Name,
				Key:  item.Data.Key,
				URL:  item.Data.URL,
				Size: item.Data.Size,
			}
		}
		if item.Error != nil {
			results[i].Err = &ResultError{Code: item.Error.Code, Message: item.Error.Message}
		}
	}
	return results, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func buildMultipartBody(files []StagedFile) (body *bytes.Buffer, contentType string, err error) {
	body = &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, file := range files {
		partType := file.ContentType
		if partType == "" {
			partType = defaultPartType
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(file.Name)))
		h.Set("Content-Type", partType)

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err = part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err = writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
