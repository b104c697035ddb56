package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/zKarlz/photomock/internal/security"
)

// S3Store keeps assets in an S3-compatible bucket, one key prefix per
// asset id. Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare
// R2, etc. Signed retrieval uses native presigned URLs, so the bucket
// can stay fully private without the engine streaming every byte.
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
}

// S3Config holds connection settings for S3-compatible storage.
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional, for MinIO / Spaces / R2
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	ctx := context.Background()

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	store := &S3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
	}

	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return store, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

func (s *S3Store) key(assetID, fileName string) string {
	return assetID + "/" + security.NormalizeFileName(fileName)
}

func (s *S3Store) put(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *S3Store) StoreOriginal(assetID, ext string, data []byte) error {
	return s.put(s.key(assetID, OriginalPrefix+ext), data)
}

func (s *S3Store) OriginalName(assetID string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(assetID + "/" + OriginalPrefix + "."),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list asset objects: %w", err)
	}
	if len(out.Contents) == 0 {
		return "", fmt.Errorf("%w: original for asset %s", ErrNotFound, assetID)
	}
	key := aws.ToString(out.Contents[0].Key)
	return key[strings.LastIndex(key, "/")+1:], nil
}

func (s *S3Store) ReadFile(assetID, fileName string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(assetID, fileName)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, assetID, fileName)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object: %w", err)
	}
	return data, nil
}

func (s *S3Store) WriteDerived(assetID string, composite, thumb []byte) error {
	// Each S3 PUT is atomic on its own; readers see either the old or
	// the new object, never a partial write.
	if err := s.put(s.key(assetID, FileComposite), composite); err != nil {
		return err
	}
	return s.put(s.key(assetID, FileThumb), thumb)
}

func (s *S3Store) SignedURLs(assetID string, ttl time.Duration) (map[string]string, error) {
	urls := make(map[string]string)

	names := map[string]string{"composite": FileComposite, "thumb": FileThumb}
	if original, err := s.OriginalName(assetID); err == nil {
		names["original"] = original
	}

	for key, name := range names {
		if !s.exists(assetID, name) {
			continue
		}
		url, err := s.presign(s.key(assetID, name), ttl)
		if err != nil {
			return nil, err
		}
		urls[key] = url
	}
	return urls, nil
}

func (s *S3Store) exists(assetID, fileName string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(assetID, fileName)),
	})
	return err == nil
}

func (s *S3Store) presign(key string, expiry time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	presignedReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return presignedReq.URL, nil
}

func (s *S3Store) Purge(assetID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// An asset prefix normally holds three objects, but walk all pages
	// anyway so a partial purge can never strand objects past the first
	// page.
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(assetID + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list asset objects: %w", err)
		}
		for _, obj := range page.Contents {
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return fmt.Errorf("failed to delete from S3: %w", err)
			}
		}
	}
	return nil
}

var _ AssetStore = (*S3Store)(nil)
