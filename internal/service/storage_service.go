package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"lms_backend/internal/config"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageService stores submission files either on local disk or in a
// MinIO bucket, depending on configuration.
type StorageService struct {
	cfg    config.StorageConfig
	client *minio.Client
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	s := &StorageService{cfg: cfg}

	if cfg.Type == util.StorageMinio {
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		s.client = client

		ctx := context.Background()
		exists, err := client.BucketExists(ctx, cfg.MinioBucket)
		if err != nil {
			return nil, fmt.Errorf("minio bucket check: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("minio bucket create: %w", err)
			}
		}
	}

	return s, nil
}

// SaveSubmission validates the file extension, prefixes the name with a
// UUID to avoid collisions and returns the stored path.
func (s *StorageService) SaveSubmission(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtension(ext) {
		return "", util.ErrFileTypeNotAllowed
	}

	name := uuid.New().String() + "_" + filepath.Base(file.Filename)

	if s.cfg.Type == util.StorageMinio {
		return s.saveToMinio(ctx, file, name)
	}
	return s.saveToLocal(file, name)
}

func (s *StorageService) saveToLocal(file *multipart.FileHeader, name string) (string, error) {
	dst := filepath.Join(s.cfg.LocalPath, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		return "", err
	}
	return dst, nil
}

func (s *StorageService) saveToMinio(ctx context.Context, file *multipart.FileHeader, name string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	_, err = s.client.PutObject(ctx, s.cfg.MinioBucket, name, src, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		logger.Log.Error("minio upload failed", zap.String("object", name), zap.Error(err))
		return "", err
	}
	return fmt.Sprintf("%s/%s", s.cfg.MinioBucket, name), nil
}

func allowedExtension(ext string) bool {
	for _, allowed := range util.AllowedSubmissionExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
