package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/justinong00/mern-dormguru-sub000/internal/imagehost"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageService spools an upload to disk and hands it to the image host.
type ImageService struct {
	host     imagehost.Host
	tmpDir   string
	maxBytes int64
	log      *zap.Logger
}

func NewImageService(host imagehost.Host, tmpDir string, maxBytes int64, log *zap.Logger) *ImageService {
	return &ImageService{host: host, tmpDir: tmpDir, maxBytes: maxBytes, log: log}
}

// Upload stores the image read from r and returns its public URL. Only
// JPEG, PNG, GIF and WebP content is accepted.
func (s *ImageService) Upload(ctx context.Context, r io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return "", validationErr("image is empty")
		}
		return "", err
	}
	head = head[:n]

	ctype := http.DetectContentType(head)
	ext, ok := imageExt[strings.SplitN(ctype, ";", 2)[0]]
	if !ok {
		return "", validationErr("unsupported image type %s", ctype)
	}

	if err := os.MkdirAll(s.tmpDir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(s.tmpDir, "upload-*"+ext)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	rest := r
	if s.maxBytes > 0 {
		// one byte past the limit is enough to detect an oversized upload
		rest = io.LimitReader(r, s.maxBytes-int64(len(head))+1)
	}
	written, err := io.Copy(tmp, io.MultiReader(bytes.NewReader(head), rest))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		return "", validationErr("image exceeds %d bytes", s.maxBytes)
	}

	publicID := uuid.NewString()
	url, err := s.host.Upload(ctx, tmp.Name(), publicID)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}

	s.log.Info("image uploaded", zap.String("publicID", publicID), zap.Int64("bytes", written))
	return url, nil
}
