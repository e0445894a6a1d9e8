package banksource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
)

// maxBankObjectSize bounds how much of the object is read into memory.
const maxBankObjectSize = 64 << 20

// ObjectSource reads the bank document from S3-compatible storage such as
// Cloudflare R2 or MinIO.
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// ObjectOptions locates the bank object.
type ObjectOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Key       string
}

// NewObjectSource constructs the source. No request is made until Load.
func NewObjectSource(opts ObjectOptions, logger *slog.Logger) (*ObjectSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(opts.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(opts.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       useSSL,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &ObjectSource{
		client: client,
		bucket: opts.Bucket,
		key:    opts.Key,
		logger: logger.With("component", "banksource.object"),
	}, nil
}

// Name implements questionbank.Source.
func (s *ObjectSource) Name() string {
	return "object"
}

// Load downloads and decodes the bank object.
func (s *ObjectSource) Load(ctx context.Context) (questionbank.Bank, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get bank object %s/%s: %w", s.bucket, s.key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxBankObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("read bank object %s/%s: %w", s.bucket, s.key, err)
	}
	if len(data) > maxBankObjectSize {
		return nil, fmt.Errorf("bank object %s/%s exceeds %d bytes", s.bucket, s.key, maxBankObjectSize)
	}
	s.logger.Debug("bank object downloaded", "bucket", s.bucket, "key", s.key, "bytes", len(data))
	return DecodeBank(data)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ questionbank.Source = (*ObjectSource)(nil)
