// Package storage provides a disk-backed bucket for uploaded property
// images. Objects are written under a root directory and addressed by
// a relative path; Save returns the URL under which the router serves
// the file.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type Bucket struct {
	root    string
	baseURL string
}

func NewBucket(root, baseURL string) (*Bucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Bucket{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the object at the given bucket path and returns its
// public URL.
func (b *Bucket) Save(objectPath string, r io.Reader) (string, error) {
	clean, err := b.resolve(objectPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}
	f, err := os.Create(clean)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return b.baseURL + "/" + path.Clean(objectPath), nil
}

// Remove deletes a single object.
func (b *Bucket) Remove(objectPath string) error {
	clean, err := b.resolve(objectPath)
	if err != nil {
		return err
	}
	return os.Remove(clean)
}

// RemoveAll deletes every object under the given prefix. Used to
// unwind a partially completed listing creation.
func (b *Bucket) RemoveAll(prefix string) error {
	clean, err := b.resolve(prefix)
	if err != nil {
		return err
	}
	return os.RemoveAll(clean)
}

func (b *Bucket) resolve(objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if clean == "/" || strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("invalid object path %q", objectPath)
	}
	return filepath.Join(b.root, filepath.FromSlash(clean)), nil
}
