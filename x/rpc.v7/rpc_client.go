package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequestURL = errors.New("invalid request url")
	UserAgent            = "upcli"
)

// --------------------------------------------------------------------

type Client struct {
	*http.Client
}

// DefaultClient has no overall timeout; callers bound requests through the
// context or DoWithTimeout.
var DefaultClient = Client{&http.Client{}}

// --------------------------------------------------------------------

func NewRequest(ctx context.Context, method, url1 string, body io.Reader) (*http.Request, error) {
	if strings.TrimSpace(url1) == "" {
		return nil, ErrInvalidRequestURL
	}
	return http.NewRequestWithContext(ctx, method, url1, body)
}

func (r Client) DoRequestWith(
	ctx context.Context, method, url1 string,
	bodyType string, body io.Reader, bodyLength int64,
	header http.Header, timeout time.Duration,
) (resp *http.Response, err error) {

	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		// the body is read after we return, so release the timer when it is closed
		defer func() {
			if err != nil {
				cancel()
				return
			}
			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		}()
	}

	req, err := NewRequest(ctx, method, url1, body)
	if err != nil {
		return
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", bodyType)
	req.ContentLength = bodyLength
	return r.Do(req)
}

func (r Client) Do(req *http.Request) (resp *http.Response, err error) {
	// avoid sending when the context is already done
	select {
	case <-req.Context().Done():
		return nil, req.Context().Err()
	default:
	}

	if req.Header.Get("X-Reqid") == "" {
		req.Header.Set("X-Reqid", uuid.NewString())
	}
	if _, ok := req.Header["User-Agent"]; !ok {
		req.Header.Set("User-Agent", UserAgent)
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// --------------------------------------------------------------------

type ErrorInfo struct {
	Err   string `json:"error,omitempty"`
	Key   string `json:"key,omitempty"`
	Reqid string `json:"reqid,omitempty"`
	Errno int    `json:"errno,omitempty"`
	Code  int    `json:"code"`
}

func (r *ErrorInfo) ErrorDetail() string {

	msg, _ := json.Marshal(r)
	return string(msg)
}

func (r *ErrorInfo) Error() string {
	if r.Err == "" {
		return http.StatusText(r.Code)
	}
	return r.Err
}

func (r *ErrorInfo) HttpCode() int {

	return r.Code
}

// --------------------------------------------------------------------

func parseError(e *ErrorInfo, r io.Reader) {

	body, err1 := io.ReadAll(r)
	if err1 != nil {
		e.Err = err1.Error()
		return
	}

	var ret struct {
		Err     string `json:"error"`
		Message string `json:"message"`
		Key     string `json:"key"`
		Errno   int    `json:"errno"`
	}
	if json.Unmarshal(body, &ret) == nil && (ret.Err != "" || ret.Message != "") {
		e.Err, e.Key, e.Errno = ret.Err, ret.Key, ret.Errno
		if e.Err == "" {
			e.Err = ret.Message
		}
		return
	}
	e.Err = strings.TrimSpace(string(body))
}

func ResponseError(resp *http.Response) error {

	e := &ErrorInfo{
		Reqid: resp.Header.Get("X-Reqid"),
		Code:  resp.StatusCode,
	}
	if resp.StatusCode > 299 && resp.ContentLength != 0 {
		parseError(e, resp.Body)
	}
	return e
}

func CallRet(_ context.Context, ret interface{}, resp *http.Response) (err error) {
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		if ret != nil && resp.ContentLength != 0 {
			err = json.NewDecoder(resp.Body).Decode(ret)
			if err != nil {
				return
			}
		}
		return nil
	}
	return ResponseError(resp)
}

func (r Client) CallWith(
	ctx context.Context, ret interface{}, method, url1, bodyType string, body io.Reader, bodyLength int64,
	header http.Header, timeout time.Duration) (err error) {

	resp, err := r.DoRequestWith(ctx, method, url1, bodyType, body, bodyLength, header, timeout)
	if err != nil {
		return err
	}
	return CallRet(ctx, ret, resp)
}
