package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/baselshm/breathtech-api/internal/application/ports"
	"github.com/baselshm/breathtech-api/pkg/config"
)

var _ ports.AvatarStorage = (*S3Storage)(nil)

// S3Storage guarda los avatares en un bucket S3-compatible (AWS o MinIO).
// Los objetos quedan bajo el prefijo avatars/ y la ruta pública devuelta es la
// URL directa del objeto (el bucket debe permitir lectura pública).
type S3Storage struct {
	client *s3.Client
	bucket string
	base   string // URL base pública del bucket
}

// NewS3Storage construye el cliente S3 con credenciales estáticas de la config.
// Endpoint vacío = AWS; con URL se apunta a MinIO u otro compatible.
func NewS3Storage(ctx context.Context, cfg config.UploadsConfig) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("configurar cliente S3: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // MinIO no resuelve buckets por subdominio
		}
	})

	base := cfg.S3Endpoint
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	} else {
		base = strings.TrimRight(base, "/") + "/" + cfg.S3Bucket
	}

	return &S3Storage{client: client, bucket: cfg.S3Bucket, base: base}, nil
}

// Save sube el blob como avatars/<key> y devuelve su URL pública.
func (s *S3Storage) Save(ctx context.Context, key string, contentType string, content io.Reader) (string, error) {
	objectKey := "avatars/" + key
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("subir avatar a S3: %w", err)
	}
	return s.base + "/" + objectKey, nil
}
