package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	store := NewLocalStore(dir)
	store.now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }

	path, err := store.Save(context.Background(), "faturas.csv", "text/csv", []byte("a,b"))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "faturas_20240305_140709.csv", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))
}

func TestLocalStoreRejectsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalStore(t.TempDir()).Save(ctx, "x.png", "image/png", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func newTestS3Store(t *testing.T, client *fakeS3, prefix string) *S3Store {
	t.Helper()
	store, err := NewS3Store(context.Background(), types.StorageConfig{Bucket: "escola", Prefix: prefix}, WithS3Client(client))
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC) }
	store.newID = func() string { return "0d9c2b1e" }
	return store
}

func TestS3StoreSave(t *testing.T) {
	t.Parallel()

	client := &fakeS3{}
	store := newTestS3Store(t, client, "/artifacts/")

	loc, err := store.Save(context.Background(), "qr.png", "image/png", []byte("png"))
	require.NoError(t, err)

	assert.Equal(t, "s3://escola/artifacts/2024/03/05/0d9c2b1e-qr.png", loc)
	require.NotNil(t, client.input)
	assert.Equal(t, "escola", aws.ToString(client.input.Bucket))
	assert.Equal(t, "artifacts/2024/03/05/0d9c2b1e-qr.png", aws.ToString(client.input.Key))
	assert.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, []byte("png"), client.body)
}

func TestS3StoreKeyWithoutPrefix(t *testing.T) {
	t.Parallel()

	store := newTestS3Store(t, &fakeS3{}, "")
	assert.Equal(t, "2024/03/05/0d9c2b1e-notas.json", store.objectKey("../notas.json"))
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	t.Parallel()

	_, err := NewS3Store(context.Background(), types.StorageConfig{}, WithS3Client(&fakeS3{}))
	assert.ErrorIs(t, err, types.ErrStorage)
}

func TestClassifyS3Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		contain string
		is      error
	}{
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, contain: "access denied"},
		{name: "missing bucket", err: &s3types.NoSuchBucket{}, contain: "bucket does not exist"},
		{name: "other api error", err: &smithy.GenericAPIError{Code: "SlowDown"}, contain: "code: SlowDown"},
		{name: "timeout", err: context.DeadlineExceeded, is: context.DeadlineExceeded},
		{name: "plain", err: errors.New("boom"), contain: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyS3Error(tt.err, "put")
			assert.ErrorIs(t, err, types.ErrStorage)
			if tt.contain != "" {
				assert.ErrorContains(t, err, tt.contain)
			}
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestS3StoreSaveWrapsErrors(t *testing.T) {
	t.Parallel()

	store := newTestS3Store(t, &fakeS3{err: &smithy.GenericAPIError{Code: "AccessDenied"}}, "")
	_, err := store.Save(context.Background(), "x.csv", "text/csv", []byte("x"))
	assert.ErrorIs(t, err, types.ErrStorage)
}

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	store, err := New(context.Background(), types.StorageConfig{}, "out")
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), types.StorageConfig{Backend: "s3"}, "")
	assert.ErrorIs(t, err, types.ErrStorage)

	_, err = New(context.Background(), types.StorageConfig{Backend: "gcs"}, "")
	assert.ErrorContains(t, err, `unknown storage backend "gcs"`)
}
