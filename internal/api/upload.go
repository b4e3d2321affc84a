package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"ms-booths/internal/apperr"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Uploader stores booth and menu images on local disk and hands back the
// public /uploads/ path that gets stored verbatim on the record.
type Uploader struct {
	Dir      string
	MaxBytes int64
	now      func() time.Time
}

func NewUploader(dir string, maxBytes int64) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Uploader{Dir: dir, MaxBytes: maxBytes, now: time.Now}, nil
}

// Save reads the multipart "file" field and writes it as
// <UTC timestamp>_<sanitized name>.
func (u *Uploader) Save(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, u.MaxBytes)
	if err := r.ParseMultipartForm(u.MaxBytes); err != nil {
		return "", apperr.Invalidf("file field is required")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", apperr.Invalidf("file field is required")
	}
	defer file.Close()

	if header.Filename == "" {
		return "", apperr.Invalidf("file name is empty")
	}
	if !AllowedFile(header.Filename) {
		return "", apperr.Invalidf("allowed extensions: png,jpg,jpeg,webp,gif")
	}
	base := SecureFilename(header.Filename)
	if base == "" {
		return "", apperr.Invalidf("file name is empty")
	}

	ts := u.now().UTC()
	name := fmt.Sprintf("%s%06d_%s", ts.Format("20060102150405"), ts.Nanosecond()/1000, base)

	if err := writeUpload(filepath.Join(u.Dir, name), file); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// writeUpload creates path exclusively and copies src into it. A failed copy
// leaves no file behind.
func writeUpload(path string, src io.Reader) error {
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close upload file: %w", err)
	}
	return nil
}

func AllowedFile(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[i+1:])]
}

// SecureFilename reduces a client supplied name to a flat ASCII file name.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFileChars.ReplaceAllString(name, "")
	return strings.TrimLeft(name, "._")
}
