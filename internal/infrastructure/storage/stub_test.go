package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStatementStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStatementStorage("")
	data := []byte("statement")

	require.NoError(t, s.Upload(ctx, "statements/a.pdf", data, "application/pdf"))
	data[0] = 'X'

	got, contentType, ok := s.Get("statements/a.pdf")
	require.True(t, ok)
	assert.Equal(t, "statement", string(got), "upload keeps its own copy")
	assert.Equal(t, "application/pdf", contentType)

	link, expiresAt, err := s.GenerateDownloadURL(ctx, "statements/a.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:8080/files/statements%2Fa.pdf?expires="))
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	_, _, err = s.GenerateDownloadURL(ctx, "missing.pdf", 0)
	assert.Error(t, err)
	assert.Error(t, s.Upload(ctx, "", data, ""))
}
