package upload

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const DefaultMaxFileSize = 20 * 1024 * 1024

const maxNameRunes = 120

// AllowedMimeTypes lists what chat attachments may be.
var AllowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
	"application/zip",
	"text/plain",
	"application/msword",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// Service stores a file, records it, and returns its descriptor.
type Service struct {
	repo    Repository
	storage Storage
	maxSize int64
	now     func() time.Time
}

func NewService(repo Repository, storage Storage, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Service{repo: repo, storage: storage, maxSize: maxSize, now: time.Now}
}

func (s *Service) MaxSize() int64 { return s.maxSize }

// Upload sniffs the content type, writes the bytes to storage and records
// the file. The stored object is removed if the record cannot be saved.
func (s *Service) Upload(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*Upload, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to detect type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), AllowedMimeTypes...) {
		return nil, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	now := s.now()
	id := uuid.New().String()
	// Static serving picks Content-Type from the key, so the extension must
	// come from the sniffed type, never from the client's file name.
	key := fmt.Sprintf("%d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), id, mtype.Extension())
	contentType := baseType(mtype.String())

	url, err := s.storage.Put(ctx, key, file, fileHeader.Size, contentType)
	if err != nil {
		return nil, err
	}

	up := &Upload{
		ID:           id,
		UserID:       userID,
		OriginalName: sanitizeName(fileHeader.Filename),
		StorageKey:   key,
		FileURL:      url,
		MimeType:     contentType,
		Size:         fileHeader.Size,
		CreatedAt:    now,
	}
	if err := s.repo.Save(ctx, up); err != nil {
		if rmErr := s.storage.Delete(ctx, key); rmErr != nil {
			log.Printf("upload_rollback_failed key=%s error=%q", key, rmErr)
		}
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}
	return up, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Upload, error) {
	return s.repo.Find(ctx, id)
}

// Delete removes the record and then the object. Only the uploader may
// delete. The record goes first so a failed delete never leaves a record
// pointing at a missing object.
func (s *Service) Delete(ctx context.Context, id string, userID int64) error {
	up, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if up.UserID != userID {
		return ErrNotOwner
	}
	if err := s.repo.RemoveOwned(ctx, id, userID); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, up.StorageKey); err != nil {
		log.Printf("upload_delete_object_failed id=%s key=%s error=%q", up.ID, up.StorageKey, err)
	}
	return nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Upload, error) {
	return s.repo.ListOwned(ctx, userID)
}

func baseType(m string) string {
	return strings.TrimSpace(strings.SplitN(m, ";", 2)[0])
}

// sanitizeName keeps a display-safe version of the client file name.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '/' || r == '"' {
			return '_'
		}
		return r
	}, name)
	if r := []rune(name); len(r) > maxNameRunes {
		name = string(r[:maxNameRunes])
	}
	if name == "" || name == "." {
		return "file"
	}
	return name
}
