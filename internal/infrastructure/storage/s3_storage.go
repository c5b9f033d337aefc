package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"convert-mastery/pkg/file"
	"convert-mastery/pkg/helper"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Folder = "converted"

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage copies artifacts to a bucket and hands out the object URL. The
// local file is left in place for the retention sweep.
type S3Storage struct {
	client     putObjectAPI
	bucketName string
	region     string
}

func NewS3Storage(ctx context.Context, bucketName, region string) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Storage{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
		region:     region,
	}, nil
}

func (s *S3Storage) Name() string { return "s3" }

func (s *S3Storage) Publish(ctx context.Context, localPath string) (string, error) {
	sum, err := file.SHA256(localPath)
	if err != nil {
		return "", fmt.Errorf("checksum artifact: %w", err)
	}
	body, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer body.Close()

	name := filepath.Base(localPath)
	key := s3Folder + "/" + name

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:         aws.String(s.bucketName),
		Key:            aws.String(key),
		Body:           body,
		ContentType:    aws.String(helper.GetMimeTypeFromExtension(name)),
		ChecksumSHA256: aws.String(base64.StdEncoding.EncodeToString(sum)),
	})
	if err != nil {
		return "", fmt.Errorf("S3 upload: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key), nil
}
