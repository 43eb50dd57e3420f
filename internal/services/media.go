package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	postImageDir     = "post_photo"
	maxPostImageSize = 5 << 20
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// MediaStore keeps uploaded post images on local disk under root.
type MediaStore struct {
	root string
}

func NewMediaStore(root string) *MediaStore {
	return &MediaStore{root: root}
}

func (m *MediaStore) Root() string {
	return m.root
}

// Check validates an upload without storing it.
func (m *MediaStore) Check(fh *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExtensions[ext] {
		return errors.New("Upload a valid image: jpg, png, gif or webp.")
	}
	if fh.Size > maxPostImageSize {
		return fmt.Errorf("Image is larger than %d MB.", maxPostImageSize>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return errors.New("The uploaded file is not an image.")
	}
	return nil
}

// SavePostImage stores the upload under a random name and returns its path
// relative to the media root, using forward slashes.
func (m *MediaStore) SavePostImage(fh *multipart.FileHeader) (string, error) {
	if err := m.Check(fh); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(m.root, postImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return path.Join(postImageDir, name), nil
}

// Remove deletes a stored image; missing files are ignored.
func (m *MediaStore) Remove(rel string) {
	if rel == "" {
		return
	}
	_ = os.Remove(filepath.Join(m.root, filepath.FromSlash(rel)))
}
