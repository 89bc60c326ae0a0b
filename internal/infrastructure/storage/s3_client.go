package storage

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"skydrive/internal/domain/service"
	"skydrive/pkg/errors"
	"skydrive/pkg/logger"
)

// Every gateway call is bounded; a hung object store must not hold a
// request (or a metadata transaction) open indefinitely.
const operationTimeout = 30 * time.Second

type S3Client struct {
	core        *minio.Core
	bucket      string
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

type S3Config struct {
	Endpoint    string
	Region      string
	Bucket      string
	AccessKey   string
	SecretKey   string
	UseSSL      bool
	UploadTTL   time.Duration
	DownloadTTL time.Duration
}

func NewS3Client(cfg S3Config) (*S3Client, error) {
	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Internal("Failed to create object storage client", err)
	}

	return &S3Client{
		core:        core,
		bucket:      cfg.Bucket,
		uploadTTL:   cfg.UploadTTL,
		downloadTTL: cfg.DownloadTTL,
	}, nil
}

func (c *S3Client) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	header := http.Header{}
	header.Set("Content-Type", contentType)

	u, err := c.core.Client.PresignHeader(ctx, http.MethodPut, c.bucket, key, c.uploadTTL, url.Values{}, header)
	if err != nil {
		return "", errors.Upstream("Failed to presign upload URL", err)
	}
	return u.String(), nil
}

func (c *S3Client) PresignGet(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	u, err := c.core.Client.PresignedGetObject(ctx, c.bucket, key, c.downloadTTL, url.Values{})
	if err != nil {
		return "", errors.Upstream("Failed to presign download URL", err)
	}
	return u.String(), nil
}

func (c *S3Client) CreateMultipart(ctx context.Context, key, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	uploadID, err := c.core.NewMultipartUpload(ctx, c.bucket, key, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Upstream("Failed to open multipart upload", err)
	}
	return uploadID, nil
}

func (c *S3Client) PresignPart(ctx context.Context, key, uploadID string, partNumber int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("uploadId", uploadID)
	params.Set("partNumber", strconv.Itoa(partNumber))

	u, err := c.core.Client.Presign(ctx, http.MethodPut, c.bucket, key, c.uploadTTL, params)
	if err != nil {
		return "", errors.Upstream("Failed to presign part URL", err)
	}
	return u.String(), nil
}

func (c *S3Client) CompleteMultipart(ctx context.Context, key, uploadID string, parts []service.CompletedPart) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	completeParts := make([]minio.CompletePart, 0, len(parts))
	for _, part := range parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       part.ETag,
		})
	}

	_, err := c.core.CompleteMultipartUpload(ctx, c.bucket, key, uploadID, completeParts, minio.PutObjectOptions{})
	if err != nil {
		return errors.Upstream("Failed to complete multipart upload", err)
	}
	return nil
}

func (c *S3Client) AbortMultipart(ctx context.Context, key, uploadID string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	err := c.core.AbortMultipartUpload(ctx, c.bucket, key, uploadID)
	if err != nil {
		// Aborting a transfer that was never started, or that the store
		// already reaped, is not a failure.
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchUpload" || resp.Code == "NoSuchKey" {
			logger.Debug("Abort multipart: nothing to abort for key %s", key)
			return nil
		}
		return errors.Upstream("Failed to abort multipart upload", err)
	}
	return nil
}

func (c *S3Client) DeleteObject(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	err := c.core.Client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}
		return errors.Upstream("Failed to delete object", err)
	}
	return nil
}
