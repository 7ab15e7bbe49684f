package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore keeps uploaded images (product photos, complaint screenshots).
// Put returns a stable URL-ish reference; Delete accepts that reference back.
type ObjectStore interface {
	Put(data []byte, ext string) (string, error)
	Delete(ref string) error
}

// diskStore writes objects under a configured directory and serves them via
// the /uploads static route.
type diskStore struct {
	dir string
}

func NewDiskStore(dir string) (ObjectStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &diskStore{dir: dir}, nil
}

func (s *diskStore) Put(data []byte, ext string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	name := hex.EncodeToString(buf) + ext

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func (s *diskStore) Delete(ref string) error {
	name := strings.TrimPrefix(ref, "/uploads/")
	if name == "" || strings.Contains(name, "/") {
		return errors.New("invalid object reference")
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
