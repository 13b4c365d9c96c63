package storage

import (
	"testing"

	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/stretchr/testify/require"
)

func TestJoinKey(t *testing.T) {
	require := require.New(t)

	require.Equal("reports/2024/skus.csv", JoinKey("/reports/", "2024", "skus.csv"))
	require.Equal("skus.csv", JoinKey("", "/skus.csv"))
	require.Equal("reports", JoinKey("reports"))
}

func TestNormalizeEndpoint(t *testing.T) {
	require := require.New(t)

	host, secure := normalizeEndpoint("https://s3.example.com", false)
	require.Equal("s3.example.com", host)
	require.True(secure)

	host, secure = normalizeEndpoint("http://localhost:9000", true)
	require.Equal("localhost:9000", host)
	require.False(secure)

	host, secure = normalizeEndpoint("localhost:9000", true)
	require.Equal("localhost:9000", host)
	require.True(secure)
}

func TestNewS3ClientValidation(t *testing.T) {
	require := require.New(t)

	_, err := NewS3Client(config.StorageConfig{})
	require.ErrorContains(err, "endpoint")

	_, err = NewS3Client(config.StorageConfig{Endpoint: "localhost:9000"})
	require.ErrorContains(err, "credentials")

	_, err = NewS3Client(config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.ErrorContains(err, "bucket")

	c, err := NewS3Client(config.StorageConfig{Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "reports", Prefix: "roas"})
	require.NoError(err)
	require.Equal("reports", c.bucket)
}
