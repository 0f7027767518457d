package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv   string
	HTTPPort string

	MongoURI string
	MongoDB  string

	RedisAddr string
	RedisPass string

	JWTSecret   string
	JWTTTLHours int

	CORSOrigins []string

	UploadDir   string
	MaxUploadMB int64

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	MaintenanceParallelism int

	// keys that fell back to their default value
	defaulted []string
}

func Load() *Config {
	_ = godotenv.Load()

	c := &Config{}
	c.AppEnv = c.getEnv("APP_ENV", "development")
	c.HTTPPort = c.getEnv("HTTP_PORT", "8080")
	c.MongoURI = c.getEnv("MONGO_URI", "mongodb://localhost:27017")
	c.MongoDB = c.getEnv("MONGO_DB", "dormguru")
	c.RedisAddr = c.getEnv("REDIS_ADDR", "")
	c.RedisPass = c.getEnv("REDIS_PASSWORD", "")
	c.JWTSecret = c.getEnv("JWT_SECRET", "super-secret")
	c.JWTTTLHours = c.getInt("JWT_TTL_HOURS", 24)
	c.CORSOrigins = splitList(c.getEnv("CORS_ORIGINS", "http://localhost:3000"))
	c.UploadDir = c.getEnv("UPLOAD_DIR", "uploads")
	c.MaxUploadMB = int64(c.getInt("MAX_UPLOAD_MB", 10))
	c.CloudinaryCloudName = c.getEnv("CLOUDINARY_CLOUD_NAME", "")
	c.CloudinaryAPIKey = c.getEnv("CLOUDINARY_API_KEY", "")
	c.CloudinaryAPISecret = c.getEnv("CLOUDINARY_API_SECRET", "")
	c.CloudinaryFolder = c.getEnv("CLOUDINARY_FOLDER", "dormguru")
	c.MaintenanceParallelism = c.getInt("MAINTENANCE_PARALLELISM", 4)
	return c
}

// CloudinaryEnabled reports whether uploads go to Cloudinary instead of local disk.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// LogDefaults reports every key that was not set in the environment.
func (c *Config) LogDefaults(log *zap.Logger) {
	for _, k := range c.defaulted {
		log.Info("config key not set, using default", zap.String("key", k))
	}
}

func (c *Config) getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		c.defaulted = append(c.defaulted, key)
		return def
	}
	return v
}

func (c *Config) getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		c.defaulted = append(c.defaulted, key)
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.defaulted = append(c.defaulted, key)
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
