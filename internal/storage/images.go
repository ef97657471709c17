package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"opaemu-backend/pkg/logger"
)

// ImageStore keeps uploaded outfit photos on disk, one directory per chat,
// and hands back the public URL path the records reference. Writes go
// through a temp file and rename so a crashed upload never leaves a
// half-written photo behind.
type ImageStore struct {
	dataDir    string
	publicBase string
}

func NewImageStore(dataDir, publicBase string) *ImageStore {
	return &ImageStore{
		dataDir:    dataDir,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (s *ImageStore) Init() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	logger.Infof("Image store initialized: %s", s.dataDir)
	return nil
}

// Root returns the directory that should be mounted on the public base path.
func (s *ImageStore) Root() string {
	return s.dataDir
}

// Save writes the uploaded photo and returns its public URL path.
func (s *ImageStore) Save(chatID, originalName string, data []byte) (string, error) {
	chatDir := filepath.Join(s.dataDir, chatID)
	if err := os.MkdirAll(chatDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	name := uuid.NewString() + imageExt(originalName)
	finalPath := filepath.Join(chatDir, name)
	tempPath := finalPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	return s.publicBase + "/" + chatID + "/" + name, nil
}

// Remove deletes every photo stored for a chat.
func (s *ImageStore) Remove(chatID string) error {
	if err := os.RemoveAll(filepath.Join(s.dataDir, chatID)); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	return nil
}

func imageExt(name string) string {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".heic":
		return ext
	default:
		return ".jpg"
	}
}
