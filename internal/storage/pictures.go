// Package storage is the blob store for profile and server pictures.
// Files are content addressed: the name is the sha256 of the bytes.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// MaxPictureSize is the largest accepted upload.
const MaxPictureSize = 8 << 20

var (
	ErrTooLarge           = errors.New("picture is too large")
	ErrUnsupportedPicture = errors.New("unsupported picture format")
)

var allowedPictures = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

type Store struct {
	root  string
	mutex sync.Mutex
}

// New stores files below root, which is created if needed.
func New(root string) (*Store, error) {
	err := os.MkdirAll(root, os.ModePerm)
	if err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string {
	return s.root
}

// SavePicture stores an image under folder and returns its path relative to the root.
func (s *Store) SavePicture(folder string, r io.Reader) (string, error) {
	// read one byte past the limit to tell a full file from a truncated one
	inputBytes, err := io.ReadAll(io.LimitReader(r, MaxPictureSize+1))
	if err != nil {
		return "", err
	}
	if len(inputBytes) > MaxPictureSize {
		return "", ErrTooLarge
	}

	mime := mimetype.Detect(inputBytes)
	if !mimetype.EqualsAny(mime.String(), allowedPictures...) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPicture, mime.String())
	}

	hash := sha256.Sum256(inputBytes)
	fileName := hex.EncodeToString(hash[:]) + mime.Extension()
	folderPath := filepath.Join(s.root, folder)
	fullPath := filepath.Join(folderPath, fileName)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	err = os.MkdirAll(folderPath, os.ModePerm)
	if err != nil {
		return "", err
	}

	// same hash means same picture, keep the existing file
	_, err = os.Stat(fullPath)
	if os.IsNotExist(err) {
		err = os.WriteFile(fullPath, inputBytes, 0644)
		if err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join(folder, fileName)), nil
}
