package minio

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"survey-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient wraps the MinIO client for export artifacts.
type MinioClient struct {
	client *minio.Client
	config config.MinioConfig
}

var Storage = struct {
	SurveyExports string
}{
	SurveyExports: "survey-exports",
}

var BucketNames = []string{
	Storage.SurveyExports,
}

func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		log.Printf("Invalid value for MinIO secure flag: %v. Defaulting to false.", err)
		isSecure = false
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := minioClient.ListBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO server: %w", err)
	}

	log.Printf("Successfully connected to MinIO at %s", cfg.MinioURL)

	mc := &MinioClient{
		client: minioClient,
		config: cfg,
	}

	for _, bucketName := range BucketNames {
		if err := mc.ensureBucket(ctx, bucketName); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket %s: %w", bucketName, err)
		}
	}

	return mc, nil
}

func (mc *MinioClient) ensureBucket(ctx context.Context, bucketName string) error {
	exists, err := mc.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := mc.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
		Region: mc.config.MinioLocation,
	}); err != nil {
		return fmt.Errorf("error creating bucket %s: %w", bucketName, err)
	}
	log.Printf("Created bucket: %s", bucketName)
	return nil
}

func (mc *MinioClient) UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := mc.client.PutObject(ctx, bucketName, objectName, reader, int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload bytes to %s in bucket %s: %w", objectName, bucketName, err)
	}

	log.Printf("Successfully uploaded %d bytes to: %s in bucket: %s", len(data), objectName, bucketName)
	return nil
}

// GetPresignedURL generates a presigned URL for temporary access to an object
func (mc *MinioClient) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	presignedURL, err := mc.client.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL for %s in bucket %s: %w", objectName, bucketName, err)
	}
	return presignedURL.String(), nil
}

func (mc *MinioClient) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	if err := mc.client.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s from bucket %s: %w", objectName, bucketName, err)
	}
	return nil
}
