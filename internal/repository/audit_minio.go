package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/structure-engine/internal/entity"
	pkgRetry "github.com/futig/structure-engine/internal/pkg/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var _ AuditStorage = &AuditMinio{}

// AuditMinio uploads audit records as <category>/<key>.json objects.
// Uploads carry If-None-Match: *, so a concurrent writer of the same key loses
// with ErrAuditRecordExists on servers honouring conditional writes. On servers
// that ignore the header only the stat check guards the key.
type AuditMinio struct {
	client *minio.Client
	bucket string
	retry  []retry.Option
}

func NewAuditMinio(client *minio.Client, bucket string, retryCfg *pkgRetry.RetryConfig) *AuditMinio {
	if retryCfg == nil {
		retryCfg = pkgRetry.DefaultRetryConfig()
	}
	return &AuditMinio{
		client: client,
		bucket: bucket,
		retry:  retryCfg.ToRetryOptions(),
	}
}

// EnsureBucket creates the bucket when it does not exist yet
func (s *AuditMinio) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *AuditMinio) Write(ctx context.Context, category, key string, payload []byte) error {
	object := category + "/" + key + ".json"

	exists, err := s.objectExists(ctx, object)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", entity.ErrAuditRecordExists, object)
	}

	opts := append([]retry.Option{
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, entity.ErrAuditRecordExists)
		}),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "retrying audit upload",
				zap.Uint("attempt", n+1),
				zap.String("object", object),
				zap.Error(err),
			)
		}),
	}, s.retry...)

	err = retry.Do(func() error {
		putOpts := minio.PutObjectOptions{ContentType: "application/json; charset=utf-8"}
		putOpts.SetMatchETagExcept("*")

		_, err := s.client.PutObject(ctx, s.bucket, object,
			bytes.NewReader(payload), int64(len(payload)), putOpts)
		if isPreconditionFailed(err) {
			return fmt.Errorf("%w: %s", entity.ErrAuditRecordExists, object)
		}
		return err
	}, opts...)
	if errors.Is(err, entity.ErrAuditRecordExists) {
		return err
	}
	if err != nil {
		return fmt.Errorf("upload audit record: %w", err)
	}

	return nil
}

func isPreconditionFailed(err error) bool {
	if err == nil {
		return false
	}
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == http.StatusPreconditionFailed || resp.Code == "PreconditionFailed"
}

func (s *AuditMinio) objectExists(ctx context.Context, object string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, object, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" {
		return false, nil
	}
	return false, fmt.Errorf("stat audit object: %w", err)
}
