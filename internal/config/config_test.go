package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")

	cfg := Load()
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.JWTTTLHours != 24 {
		t.Errorf("JWTTTLHours = %d, want 24", cfg.JWTTTLHours)
	}
	if cfg.CloudinaryEnabled() {
		t.Error("expected cloudinary to be disabled without credentials")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg := Load()
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.JWTTTLHours != 2 {
		t.Errorf("JWTTTLHours = %d, want 2", cfg.JWTTTLHours)
	}
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
	if !cfg.CloudinaryEnabled() {
		t.Error("expected cloudinary to be enabled")
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")

	cfg := Load()
	if cfg.MaxUploadMB != 10 {
		t.Errorf("MaxUploadMB = %d, want 10", cfg.MaxUploadMB)
	}
}
