package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Upload  UploadConfig  `yaml:"upload"`
	OCR     OCRConfig     `yaml:"ocr"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Storage StorageConfig `yaml:"storage"`
	Cleanup CleanupConfig `yaml:"cleanup"`
}

type AppConfig struct {
	Env    string `yaml:"env"`
	Locale string `yaml:"locale"` // error message catalog, see pkg/errors/i18n
}

type ServerConfig struct {
	Port          string `yaml:"port"`
	Host          string `yaml:"host"`
	CORSOrigin    string `yaml:"cors_origin"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type UploadConfig struct {
	UploadsDir   string `yaml:"uploads_dir"`
	ConvertedDir string `yaml:"converted_dir"`
	MaxFileSize  int64  `yaml:"max_file_size"` // bytes
}

type OCRConfig struct {
	Engine        string        `yaml:"engine"` // cli | gosseract
	Language      string        `yaml:"language"`
	TesseractPath string        `yaml:"tesseract_path"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxEdge       int           `yaml:"max_edge"` // px, 0 disables downscaling
}

type FFmpegConfig struct {
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"` // 0 = no limit
}

type StorageConfig struct {
	Driver   string `yaml:"driver"` // local | s3
	S3Bucket string `yaml:"s3_bucket"`
	S3Region string `yaml:"s3_region"`
}

type CleanupConfig struct {
	Schedule          string        `yaml:"schedule"`
	ArtifactRetention time.Duration `yaml:"artifact_retention"` // 0 keeps artifacts forever
	UploadRetention   time.Duration `yaml:"upload_retention"`
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{Env: "development", Locale: "en"},
		Server: ServerConfig{
			Port:          "5000",
			Host:          "",
			CORSOrigin:    "https://convertmastery.com",
			PublicBaseURL: "http://localhost:5000",
		},
		Upload: UploadConfig{
			UploadsDir:   "uploads",
			ConvertedDir: "converted",
			MaxFileSize:  1024 * 1024 * 1024, // 1GB
		},
		OCR: OCRConfig{
			Engine:        "cli",
			Language:      "eng",
			TesseractPath: "tesseract",
			Timeout:       2 * time.Minute,
			MaxEdge:       4000,
		},
		FFmpeg: FFmpegConfig{
			Path: "ffmpeg",
		},
		Storage: StorageConfig{
			Driver:   "local",
			S3Region: "eu-central-1",
		},
		Cleanup: CleanupConfig{
			Schedule:          "0 */5 * * * *",
			ArtifactRetention: 24 * time.Hour,
			UploadRetention:   time.Hour,
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// named by CONFIG_FILE, and finally environment variables. Upload and
// converted directories are made absolute and created.
func LoadConfig() (*Config, error) {
	config := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	config.App.Env = getEnv("APP_ENV", config.App.Env)
	config.App.Locale = getEnv("APP_LOCALE", config.App.Locale)
	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.Server.Host = getEnv("HOST", config.Server.Host)
	config.Server.CORSOrigin = getEnv("CORS_ORIGIN", config.Server.CORSOrigin)
	config.Server.PublicBaseURL = getEnv("PUBLIC_BASE_URL", config.Server.PublicBaseURL)

	config.Upload.UploadsDir = getEnv("UPLOAD_DIR", config.Upload.UploadsDir)
	config.Upload.ConvertedDir = getEnv("CONVERTED_DIR", config.Upload.ConvertedDir)
	config.Upload.MaxFileSize = getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", config.Upload.MaxFileSize)

	config.OCR.Engine = getEnv("OCR_ENGINE", config.OCR.Engine)
	config.OCR.Language = getEnv("OCR_LANGUAGE", config.OCR.Language)
	config.OCR.TesseractPath = getEnv("TESSERACT_PATH", config.OCR.TesseractPath)
	config.OCR.Timeout = getEnvAsDuration("OCR_TIMEOUT", config.OCR.Timeout)
	config.OCR.MaxEdge = int(getEnvAsInt64("OCR_MAX_EDGE", int64(config.OCR.MaxEdge)))

	config.FFmpeg.Path = getEnv("FFMPEG_PATH", config.FFmpeg.Path)
	config.FFmpeg.Timeout = getEnvAsDuration("FFMPEG_TIMEOUT", config.FFmpeg.Timeout)

	config.Storage.Driver = getEnv("STORAGE_DRIVER", config.Storage.Driver)
	config.Storage.S3Bucket = getEnv("S3_BUCKET", config.Storage.S3Bucket)
	config.Storage.S3Region = getEnv("S3_REGION", config.Storage.S3Region)

	config.Cleanup.Schedule = getEnv("CLEANUP_SCHEDULE", config.Cleanup.Schedule)
	config.Cleanup.ArtifactRetention = getEnvAsDuration("ARTIFACT_RETENTION", config.Cleanup.ArtifactRetention)
	config.Cleanup.UploadRetention = getEnvAsDuration("UPLOAD_RETENTION", config.Cleanup.UploadRetention)

	if err := config.validate(); err != nil {
		return nil, err
	}
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE must be positive")
	}
	return nil
}

// EnsureDirs resolves the upload and converted directories to absolute paths
// and creates them if they are missing.
func (c *Config) EnsureDirs() error {
	for _, dir := range []*string{&c.Upload.UploadsDir, &c.Upload.ConvertedDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", *dir, err)
		}
		if err := os.MkdirAll(abs, 0755); err != nil {
			return fmt.Errorf("create %s: %w", abs, err)
		}
		*dir = abs
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
