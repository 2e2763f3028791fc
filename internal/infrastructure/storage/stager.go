// Package storage writes ticket attachments to the upload directory and reads
// them back for mail delivery and auditing.
package storage

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"github.com/techdesk-io/techdesk/internal/domain/ticket"
	"github.com/techdesk-io/techdesk/internal/shared/config"
	apperrors "github.com/techdesk-io/techdesk/internal/shared/errors"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

const (
	fileNameRandomBytes = 16
	sniffLen            = 3072
)

// allowedExtensions is matched against the lowercased original extension.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type AttachmentStager struct {
	fs          afero.Fs
	dir         string
	maxFiles    int
	maxFileSize int64
	now         func() time.Time
	logger      logger.Interface
}

func NewAttachmentStager(fs afero.Fs, cfg *config.UploadConfig, log logger.Interface) *AttachmentStager {
	return &AttachmentStager{
		fs:          fs,
		dir:         cfg.Dir,
		maxFiles:    cfg.MaxFiles,
		maxFileSize: cfg.MaxFileSize,
		now:         time.Now,
		logger:      log.With("component", "storage.stager"),
	}
}

func (s *AttachmentStager) Dir() string {
	return s.dir
}

// Stage checks every upload against the count, extension and size policy
// before writing anything, then writes the accepted uploads in order. When a
// write fails, files written earlier in the same call are removed.
func (s *AttachmentStager) Stage(ctx context.Context, uploads []ticket.Upload) ([]ticket.Attachment, error) {
	if len(uploads) == 0 {
		return []ticket.Attachment{}, nil
	}
	if err := s.validate(uploads); err != nil {
		return nil, err
	}

	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		return nil, apperrors.NewStagingError("failed to prepare upload directory", err)
	}

	staged := make([]ticket.Attachment, 0, len(uploads))
	for _, upload := range uploads {
		if err := ctx.Err(); err != nil {
			s.cleanup(staged)
			return nil, apperrors.NewStagingError("staging interrupted", err)
		}

		attachment, err := s.write(upload)
		if err != nil {
			s.cleanup(staged)
			return nil, err
		}
		staged = append(staged, attachment)
	}

	s.logger.Infow("attachments staged", "count", len(staged))
	return staged, nil
}

func (s *AttachmentStager) validate(uploads []ticket.Upload) error {
	if len(uploads) > s.maxFiles {
		return apperrors.NewValidationError(
			"too many attachments",
			fmt.Sprintf("at most %d files are accepted, got %d", s.maxFiles, len(uploads)),
		)
	}

	for _, upload := range uploads {
		name := filepath.Base(upload.OriginalName)
		ext := strings.ToLower(filepath.Ext(name))
		if !allowedExtensions[ext] {
			return apperrors.NewValidationError(
				"unsupported attachment type",
				fmt.Sprintf("%s: only .jpg, .jpeg and .png are accepted", name),
			)
		}
		if upload.Size > s.maxFileSize {
			return apperrors.NewValidationError(
				"attachment too large",
				fmt.Sprintf("%s exceeds %d bytes", name, s.maxFileSize),
			)
		}
		if upload.Open == nil {
			return apperrors.NewValidationError("attachment has no content", name)
		}
	}
	return nil
}

func (s *AttachmentStager) write(upload ticket.Upload) (ticket.Attachment, error) {
	originalName := filepath.Base(upload.OriginalName)
	storageName, err := generateStorageName(s.now(), filepath.Ext(originalName))
	if err != nil {
		return ticket.Attachment{}, apperrors.NewStagingError("failed to generate storage name", err)
	}

	src, err := upload.Open()
	if err != nil {
		return ticket.Attachment{}, apperrors.NewStagingError("failed to read upload", err)
	}
	defer src.Close()

	path := filepath.Join(s.dir, storageName)
	dst, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return ticket.Attachment{}, apperrors.NewStagingError("failed to create attachment file", err)
	}

	br := bufio.NewReaderSize(src, sniffLen)
	head, _ := br.Peek(sniffLen)
	contentType := mimetype.Detect(head).String()

	written, copyErr := io.Copy(dst, io.LimitReader(br, s.maxFileSize+1))
	closeErr := dst.Close()

	switch {
	case copyErr != nil:
		_ = s.fs.Remove(path)
		return ticket.Attachment{}, apperrors.NewStagingError("failed to write attachment", copyErr)
	case closeErr != nil:
		_ = s.fs.Remove(path)
		return ticket.Attachment{}, apperrors.NewStagingError("failed to write attachment", closeErr)
	case written > s.maxFileSize:
		_ = s.fs.Remove(path)
		return ticket.Attachment{}, apperrors.NewValidationError(
			"attachment too large",
			fmt.Sprintf("%s exceeds %d bytes", originalName, s.maxFileSize),
		)
	}

	return ticket.Attachment{
		OriginalName: originalName,
		StorageName:  storageName,
		ContentType:  contentType,
		Size:         written,
	}, nil
}

func (s *AttachmentStager) cleanup(staged []ticket.Attachment) {
	for _, a := range staged {
		if err := s.fs.Remove(filepath.Join(s.dir, a.StorageName)); err != nil {
			s.logger.Warnw("failed to remove staged attachment", "storage_name", a.StorageName, "error", err)
		}
	}
}

// Open returns a reader for a staged attachment. storageName must be a bare
// file name as produced by Stage.
func (s *AttachmentStager) Open(storageName string) (afero.File, error) {
	if storageName != filepath.Base(storageName) || storageName == "." || storageName == ".." {
		return nil, fmt.Errorf("invalid storage name %q", storageName)
	}
	return s.fs.Open(filepath.Join(s.dir, storageName))
}

// ListStored returns the names of all regular files in the upload directory,
// sorted. A missing directory yields an empty list.
func (s *AttachmentStager) ListStored() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list upload directory: %w", err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Mode().IsRegular() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// generateStorageName returns <unix-millis>-<32 hex><lowercased ext>.
func generateStorageName(now time.Time, ext string) (string, error) {
	randBytes := make([]byte, fileNameRandomBytes)
	if _, err := rand.Read(randBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), hex.EncodeToString(randBytes), strings.ToLower(ext)), nil
}
