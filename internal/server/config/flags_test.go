package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_parseFlags(t *testing.T) {
	var got Config
	got.LoadDefaults()

	args := []string{
		"-a", ":9090", "-d", "postgres://x", "-s", "flag-secret", "-t", "2",
		"-bb", "s3", "-bd", "/blobs", "-u", "u", "-p", "p", "-b", "bkt", "-g", "eu",
		"-e", "http://s3", "-mu", "100", "-unknown", "ignored",
	}
	require.NoError(t, parseFlags(&got, args))

	var want Config
	want.LoadDefaults()
	want.ListenAddr = ":9090"
	want.DatabaseDSN = "postgres://x"
	want.SecretKey = "flag-secret"
	want.AccessTokenValidityDuration = 2 * time.Hour
	want.BlobBackend = "s3"
	want.BlobDir = "/blobs"
	want.S3RootUser = "u"
	want.S3RootPassword = "p"
	want.S3Bucket = "bkt"
	want.S3Region = "eu"
	want.S3BaseEndpoint = "http://s3"
	want.MaxUploadBytes = 100

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseFlags mismatch (-want +got):\n%s", diff)
	}
}

func Test_parseFlags_UnsetKeepsValidity(t *testing.T) {
	var got Config
	got.LoadDefaults()
	require.NoError(t, parseFlags(&got, nil))
	require.Equal(t, 30*24*time.Hour, got.AccessTokenValidityDuration)
}

func Test_parseFlags_BadValue(t *testing.T) {
	var got Config
	require.Error(t, parseFlags(&got, []string{"-mu", "lots"}))
}
