package operation

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockPart struct {
	filename    string
	contentType string
	data        []byte
}

// mockServer stores every uploaded part and answers with a CDN url per file.
type mockServer struct {
	mu       sync.Mutex
	apiKey   string
	parts    []mockPart
	requests int
	header   http.Header
	server   *httptest.Server
}

func newMockServer(t *testing.T, apiKey string) *mockServer {
	m := &mockServer{apiKey: apiKey}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			m.upload(t, w, r)
		default:
			assert.Fail(t, "unknown path: "+r.URL.String())
		}
	}))
	return m
}

func (m *mockServer) upload(t *testing.T, w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	m.header = r.Header.Clone()

	if r.Header.Get("X-Api-Key") != m.apiKey {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
		return
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	assert.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	var resp []uploadResponseItem
	reader := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "files", part.FormName())
		data, err := io.ReadAll(part)
		assert.NoError(t, err)
		p := mockPart{filename: part.FileName(), contentType: part.Header.Get("Content-Type"), data: data}
		m.parts = append(m.parts, p)

		if len(data) == 0 {
			resp = append(resp, uploadResponseItem{Error: &uploadError{Code: "BAD_REQUEST", Message: "empty file"}})
			continue
		}
		resp = append(resp, uploadResponseItem{Data: &uploadedFile{
			Key:  "key-" + p.filename,
			URL:  "https://cdn.example/" + p.filename,
			Name: p.filename,
			Size: int64(len(data)),
		}})
	}

	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(resp))
}

func (m *mockServer) Close() {
	m.server.Close()
}

func (m *mockServer) getConfig() *Config {
	return &Config{ApiURL: m.server.URL + "/"}
}
