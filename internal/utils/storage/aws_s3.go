package storage

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/internal/utils"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2/log"
)

var AllowImage = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
}

var (
	ErrFileTypeNotAllowed = domain.NewError(domain.KindValidation, "file type not allowed")
	ErrOpenFile           = domain.NewError(domain.KindValidation, "failed to read uploaded file")
	ErrUploadFile         = domain.NewError(domain.KindStorage, "Failed to upload file to storage")
	ErrDeleteFile         = domain.NewError(domain.KindStorage, "Failed to delete file from storage")
)

var whitespace = regexp.MustCompile(`\s+`)

type (
	// S3API is the subset of the s3 client used here.
	S3API interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
		HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
		DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	}

	AwsS3 interface {
		UploadFile(ctx context.Context, file *multipart.FileHeader, folder string, allowedTypes ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetObjectKeyFromLink(link string) string
		GetPublicLinkKey(objectKey string) string
	}

	awsS3 struct {
		client    S3API
		bucket    string
		publicURL string
		now       func() time.Time
	}
)

func NewAwsS3() AwsS3 {
	cfg := utils.GetAppConfig()

	awsCfg, err := config.LoadDefaultConfig(
		context.Background(),
		config.WithRegion(cfg.AWSS3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKey,
			cfg.AWSSecretKey,
			"",
		)),
	)
	if err != nil {
		log.Fatalf("failed to load storage configuration: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSS3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSS3Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.AWSS3PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.AWSS3Bucket, cfg.AWSS3Region)
	}

	return NewAwsS3WithClient(client, cfg.AWSS3Bucket, publicURL)
}

func NewAwsS3WithClient(client S3API, bucket, publicURL string) AwsS3 {
	return &awsS3{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// ObjectKey builds "<folder>/<epoch ms>-<lowercased name with dashes>".
func ObjectKey(folder, fileName string, now time.Time) string {
	name := whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(filepath.Base(fileName))), "-")
	return fmt.Sprintf("%s/%d-%s", strings.Trim(folder, "/"), now.UnixMilli(), name)
}

func (a *awsS3) UploadFile(ctx context.Context, file *multipart.FileHeader, folder string, allowedTypes ...string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", domain.Wrap(domain.KindValidation, ErrOpenFile.Message, err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", domain.Wrap(domain.KindValidation, ErrOpenFile.Message, err)
	}
	if len(allowedTypes) > 0 && !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return "", ErrFileTypeNotAllowed
	}

	if _, err := src.Seek(0, 0); err != nil {
		return "", domain.Wrap(domain.KindValidation, ErrOpenFile.Message, err)
	}

	objectKey := ObjectKey(folder, file.Filename, a.now())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          src,
		ContentType:   aws.String(mtype.String()),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return "", domain.Wrap(domain.KindStorage, ErrUploadFile.Message, err)
	}

	return objectKey, nil
}

// DeleteFile removes an object. A missing object is not an error.
func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return nil
	}

	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isNotFound(err) {
			log.Warnw("object not found for deletion", "key", objectKey)
			return nil
		}
		return domain.Wrap(domain.KindStorage, ErrDeleteFile.Message, err)
	}

	_, err = a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return domain.Wrap(domain.KindStorage, ErrDeleteFile.Message, err)
	}
	return nil
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	if objectKey == "" {
		return ""
	}
	return a.publicURL + "/" + objectKey
}

// GetObjectKeyFromLink returns the object key of a public link, or "" if the
// link cannot be parsed.
func (a *awsS3) GetObjectKeyFromLink(link string) string {
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, a.publicURL+"/") {
		return strings.TrimPrefix(link, a.publicURL+"/")
	}

	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}
