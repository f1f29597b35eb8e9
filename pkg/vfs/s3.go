package vfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const s3Scheme = "s3://"

// S3API is the slice of the S3 client the filesystem uses.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 serves s3://bucket/key paths from an object store.
type S3 struct {
	client S3API
}

// NewS3 wraps an S3 client as a FileSystem.
func NewS3(client S3API) *S3 {
	return &S3{client: client}
}

// NewS3Client builds an S3 client from the environment. Static credentials
// are optional; when absent the default provider chain is used.
func NewS3Client(ctx context.Context, region, accessKey, secretKey string) (*s3.Client, error) {
	if region == "" {
		return nil, fmt.Errorf("AWS region not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg), nil
}

// Exists reports whether the object is present. A missing object is not an
// error.
func (f *S3) Exists(ctx context.Context, path string) (bool, error) {
	bucket, key, err := splitURI(path)
	if err != nil {
		return false, err
	}

	_, err = f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head failed for %s: %w", path, err)
	}
	return true, nil
}

// Open returns the object's content stream. The caller owns the close.
func (f *S3) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, key, err := splitURI(path)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get failed for %s: %w", path, err)
	}
	return resp.Body, nil
}

// Length returns the object's size in bytes.
func (f *S3) Length(ctx context.Context, path string) (int64, error) {
	bucket, key, err := splitURI(path)
	if err != nil {
		return 0, err
	}

	resp, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("s3 head failed for %s: %w", path, err)
	}
	return aws.ToInt64(resp.ContentLength), nil
}

// splitURI breaks s3://bucket/key into its bucket and key parts.
func splitURI(path string) (string, string, error) {
	rest, ok := strings.CutPrefix(path, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %s", path)
	}

	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri: %s", path)
	}
	return bucket, key, nil
}
