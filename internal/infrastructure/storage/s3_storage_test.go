package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	infraconfig "github.com/erp/payroll/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStorageConfig(endpoint string) *infraconfig.StorageConfig {
	return &infraconfig.StorageConfig{
		Enabled:      true,
		Endpoint:     endpoint,
		Region:       "us-east-1",
		Bucket:       "statements",
		AccessKey:    "access",
		SecretKey:    "secret",
		UsePathStyle: true,
	}
}

func TestNewS3StatementStorage_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*infraconfig.StorageConfig)
		errMsg string
	}{
		{"missing bucket", func(c *infraconfig.StorageConfig) { c.Bucket = "" }, "bucket"},
		{"missing access key", func(c *infraconfig.StorageConfig) { c.AccessKey = "" }, "access key"},
		{"missing secret", func(c *infraconfig.StorageConfig) { c.SecretKey = "" }, "secret key"},
		{"bad endpoint", func(c *infraconfig.StorageConfig) { c.Endpoint = "http://" }, "invalid storage endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStorageConfig("localhost:9000")
			tt.mutate(cfg)
			_, err := NewS3StatementStorage(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := NewS3StatementStorage(nil)
	assert.Error(t, err)
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("minio:9000", true)
	require.NoError(t, err)
	assert.Equal(t, "https://minio:9000", got)

	got, err = normalizeEndpoint("", false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", got)
}

func TestS3StatementStorage_GenerateDownloadURL(t *testing.T) {
	s, err := NewS3StatementStorage(testStorageConfig("localhost:9000"), WithPresignExpiration(time.Hour), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	link, expiresAt, err := s.GenerateDownloadURL(context.Background(), "statements/t/e/2024-01_2024-03.pdf", 0)
	require.NoError(t, err)
	assert.Contains(t, link, "http://localhost:9000/statements/statements/t/e/2024-01_2024-03.pdf")
	assert.Contains(t, link, "X-Amz-Expires=3600")
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	_, _, err = s.GenerateDownloadURL(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestS3StatementStorage_Upload(t *testing.T) {
	var (
		mu          sync.Mutex
		method      string
		path        string
		contentType string
		disposition string
		body        string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path = r.Method, r.URL.Path
		contentType = r.Header.Get("Content-Type")
		disposition = r.Header.Get("Content-Disposition")
		body = string(raw)
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewS3StatementStorage(testStorageConfig(srv.URL))
	require.NoError(t, err)

	err = s.Upload(context.Background(), "statements/t/e/march.pdf", []byte("%PDF-1.3 statement"), "application/pdf")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/statements/statements/t/e/march.pdf", path)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, `attachment; filename="march.pdf"`, disposition)
	assert.True(t, strings.Contains(body, "%PDF-1.3 statement"))
}

func TestS3StatementStorage_UploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	s, err := NewS3StatementStorage(testStorageConfig(srv.URL))
	require.NoError(t, err)

	err = s.Upload(context.Background(), "k.pdf", []byte("x"), "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload k.pdf")
	assert.Error(t, s.Upload(context.Background(), "", nil, ""))
}
