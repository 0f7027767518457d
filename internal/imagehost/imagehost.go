// Package imagehost pushes uploaded images to where they are served from:
// Cloudinary when credentials are configured, otherwise a local directory.
package imagehost

import (
	"context"

	"github.com/justinong00/mern-dormguru-sub000/internal/config"

	"go.uber.org/zap"
)

// Host stores the image at path under publicID and returns its public URL.
type Host interface {
	Upload(ctx context.Context, path, publicID string) (string, error)
}

// New picks the host for cfg.
func New(cfg *config.Config, log *zap.Logger) (Host, error) {
	if cfg.CloudinaryEnabled() {
		log.Info("image uploads go to cloudinary", zap.String("cloud", cfg.CloudinaryCloudName))
		return NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder), nil
	}
	log.Info("image uploads stored on local disk", zap.String("dir", cfg.UploadDir))
	return NewLocal(cfg.UploadDir, "/uploads")
}
