package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StoredFile describes a persisted upload, including its content
// fingerprint.
type StoredFile struct {
	StoredName string
	Path       string
	SHA256     string
	SizeBytes  int64
}

type StorageService interface {
	SaveFile(file *multipart.FileHeader) (*StoredFile, error)
	DeleteFile(storedName string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{uploadPath: uploadPath}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// SaveFile stores an uploaded resume under a unique name, hashing the
// bytes as they are copied.
func (s *storageService) SaveFile(file *multipart.FileHeader) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" && ext != ".docx" {
		return nil, fmt.Errorf("invalid file extension: %s", ext)
	}

	storedName := fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
	path := filepath.Join(s.uploadPath, storedName)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(dst, hasher), src)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{
		StoredName: storedName,
		Path:       path,
		SHA256:     hex.EncodeToString(hasher.Sum(nil)),
		SizeBytes:  written,
	}, nil
}

func (s *storageService) DeleteFile(storedName string) error {
	if err := os.Remove(filepath.Join(s.uploadPath, storedName)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
