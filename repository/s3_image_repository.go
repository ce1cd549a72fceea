package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"catalog-service/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
)

// S3ObjectAPI is the subset of the S3 client used for image storage.
type S3ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageRepository stores one object per product under <prefix><productID>.
type S3ImageRepository struct {
	client S3ObjectAPI
	bucket string
	prefix string
}

func NewS3ImageRepository(client S3ObjectAPI, bucket, prefix string) *S3ImageRepository {
	return &S3ImageRepository{client: client, bucket: bucket, prefix: prefix}
}

func (r *S3ImageRepository) key(productID int) string {
	return r.prefix + strconv.Itoa(productID)
}

func (r *S3ImageRepository) put(ctx context.Context, productID int, data []byte) (*models.ProductImage, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key(productID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimetype.Detect(data).String()),
	})
	if err != nil {
		return nil, fmt.Errorf("put image for product %d: %w", productID, err)
	}
	return &models.ProductImage{
		ProductID:  productID,
		ImageBytes: data,
		UpdatedAt:  time.Now().UTC(),
	}, nil
}

func (r *S3ImageRepository) exists(ctx context.Context, productID int) (bool, error) {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(productID)),
	})
	if isMissingObject(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("head image for product %d: %w", productID, err)
	}
	return true, nil
}

func (r *S3ImageRepository) Create(ctx context.Context, productID int, data []byte) (*models.ProductImage, error) {
	return r.put(ctx, productID, data)
}

func (r *S3ImageRepository) FindByProductID(ctx context.Context, productID int) (*models.ProductImage, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(productID)),
	})
	if isMissingObject(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image for product %d: %w", productID, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read image for product %d: %w", productID, err)
	}

	img := &models.ProductImage{ProductID: productID, ImageBytes: data}
	if out.LastModified != nil {
		img.UpdatedAt = *out.LastModified
	}
	return img, nil
}

func (r *S3ImageRepository) Update(ctx context.Context, productID int, data []byte) (*models.ProductImage, error) {
	ok, err := r.exists(ctx, productID)
	if err != nil || !ok {
		return nil, err
	}
	return r.put(ctx, productID, data)
}

func (r *S3ImageRepository) Remove(ctx context.Context, productID int) (bool, error) {
	ok, err := r.exists(ctx, productID)
	if err != nil || !ok {
		return false, err
	}
	if _, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(productID)),
	}); err != nil {
		return false, fmt.Errorf("delete image for product %d: %w", productID, err)
	}
	return true, nil
}

func isMissingObject(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
