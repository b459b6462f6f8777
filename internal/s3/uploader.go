// Package s3 предоставляет доступ к медиатеке в Amazon S3 и совместимых хранилищах
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

// objectUploader часть s3manager.Uploader, которая используется для загрузки
type objectUploader interface {
	UploadWithContext(ctx context.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// objectClient часть клиента S3, которая используется для удаления и проверки объектов
type objectClient interface {
	DeleteObjectWithContext(ctx context.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
	HeadObjectWithContext(ctx context.Context, input *s3.HeadObjectInput, opts ...request.Option) (*s3.HeadObjectOutput, error)
}

// Uploader обертка для S3 uploader
type Uploader struct {
	s3Uploader objectUploader
	s3Client   objectClient
	config     *Config
}

// NewUploader создает новый S3 uploader
func NewUploader(config *Config) (*Uploader, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return newUploader(config, s3manager.NewUploader(sess), s3.New(sess)), nil
}

func newUploader(config *Config, uploader objectUploader, client objectClient) *Uploader {
	return &Uploader{
		s3Uploader: uploader,
		s3Client:   client,
		config:     config,
	}
}

// UploadFile загружает файл в S3 и возвращает его URL
func (u *Uploader) UploadFile(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := u.s3Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(u.config.BucketName),
		Key:    aws.String(key),
		Body:   reader,
	})

	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}

	return u.URL(key), nil
}

// URL возвращает адрес объекта в формате endpoint/bucket/key
func (u *Uploader) URL(key string) string {
	endpoint := strings.TrimSuffix(u.config.Endpoint, "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", u.config.Region)
	}
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/%s/%s", endpoint, u.config.BucketName, strings.Join(segments, "/"))
}

// Exists проверяет, есть ли объект в бакете
func (u *Uploader) Exists(ctx context.Context, key string) (bool, error) {
	_, err := u.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.config.BucketName),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("ошибка проверки файла в S3: %w", err)
}

// DeleteFile удаляет файл из S3
func (u *Uploader) DeleteFile(ctx context.Context, key string) error {
	_, err := u.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.config.BucketName),
		Key:    aws.String(key),
	})

	if err != nil {
		return fmt.Errorf("ошибка удаления файла из S3: %w", err)
	}

	return nil
}

// isNotFound распознает ответ 404 на HeadObject
func isNotFound(err error) bool {
	if reqErr, ok := err.(interface{ StatusCode() int }); ok && reqErr.StatusCode() == 404 {
		return true
	}
	if awsErr, ok := err.(interface{ Code() string }); ok {
		return awsErr.Code() == "NotFound" || awsErr.Code() == s3.ErrCodeNoSuchKey
	}
	return false
}
