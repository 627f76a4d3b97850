package operation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/service-sdk/upcli/x/rpc.v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPService_Upload(t *testing.T) {
	m := newMockServer(t, "tok_abc123")
	defer m.Close()

	service := NewHTTPService(m.getConfig())
	results, err := service.Upload(context.Background(), "tok_abc123", []StagedFile{
		{Name: "a.png", Data: []byte("png-bytes"), ContentType: "image/png"},
		{Name: `"quoted" name.bin`, Data: []byte{1, 2, 3}},
		{Name: "empty.txt", Data: nil, ContentType: "text/plain"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "https://cdn.example/a.png", results[0].URL)
	assert.Equal(t, "key-a.png", results[0].Key)
	assert.Equal(t, int64(9), results[0].Size)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, `https://cdn.example/"quoted" name.bin`, results[1].URL)

	assert.Equal(t, "", results[2].URL)
	assert.EqualError(t, results[2].Err, "BAD_REQUEST: empty file")

	require.Len(t, m.parts, 3)
	assert.Equal(t, "image/png", m.parts[0].contentType)
	assert.Equal(t, "application/octet-stream", m.parts[1].contentType)
	assert.Equal(t, `"quoted" name.bin`, m.parts[1].filename)
	assert.Equal(t, []byte{1, 2, 3}, m.parts[1].data)

	assert.Equal(t, rpc.UserAgent, m.header.Get("User-Agent"))
	assert.NotEmpty(t, m.header.Get("X-Reqid"))
}

func TestHTTPService_Unauthorized(t *testing.T) {
	m := newMockServer(t, "tok_abc123")
	defer m.Close()

	_, err := NewHTTPService(m.getConfig()).Upload(context.Background(), "wrong", []StagedFile{
		{Name: "a.txt", Data: []byte("a")},
	})
	var info *rpc.ErrorInfo
	require.ErrorAs(t, err, &info)
	assert.Equal(t, http.StatusUnauthorized, info.HttpCode())
	assert.Equal(t, "invalid api key", info.Error())
}

func TestHTTPService_TimeoutConfig(t *testing.T) {
	assertTimeout := func(serverDuration, clientTimeout int, expectError bool) {
		upServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Duration(serverDuration) * time.Millisecond)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"data":{"url":"https://cdn.example/x"}}]`))
		}))
		defer upServer.Close()

		service := NewHTTPService(&Config{ApiURL: upServer.URL, TimeoutMs: clientTimeout})
		_, err := service.Upload(context.Background(), "tok", []StagedFile{{Name: "x", Data: []byte("x")}})
		if expectError {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}
	}
	assertTimeout(500, 100, true)
	assertTimeout(100, 500, false)
}

func TestConfig_ApiBaseURL(t *testing.T) {
	assert.Equal(t, DefaultApiURL, (*Config)(nil).ApiBaseURL())
	assert.Equal(t, DefaultApiURL, (&Config{ApiURL: "  "}).ApiBaseURL())
	assert.Equal(t, "http://127.0.0.1:8080/api", (&Config{ApiURL: "http://127.0.0.1:8080/api/"}).ApiBaseURL())
}

func TestHTTPService_SharedTransport(t *testing.T) {
	s1 := NewHTTPService(&Config{DialTimeoutMs: 250}).(*httpService)
	s2 := NewHTTPService(&Config{}).(*httpService)

	assert.Same(t, s1.client.Transport, s2.client.Transport)
	assert.NotNil(t, s1.client.Transport.(*http.Transport).Proxy)
}
