// Package config assembles render settings from a .env file, the process
// environment and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// S3Config holds the object storage settings used when publishing renders
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
	ACL       string
}

// Config contains all CLI and server settings
type Config struct {
	Scene     string
	Width     int
	Output    string
	Thumbnail uint
	Upload    bool
	Quiet     bool
	Port      int
	S3        S3Config
}

// MinWidth is the narrowest image whose 16:9 height still spans two rows
const MinWidth = 4

// EnvFile returns the .env path named by RAYTRACER_ENV_FILE, or ".env"
func EnvFile() string {
	if path := os.Getenv("RAYTRACER_ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Scene:  "normal-sphere",
		Width:  400,
		Output: "output/render.ppm",
		Port:   8080,
		S3: S3Config{
			Region: "us-east-1",
			Prefix: "renders",
			ACL:    "public-read",
		},
	}
}

// lookup resolves a key from the environment first, then the .env values
type lookup struct {
	dotenv map[string]string
}

func (l lookup) get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if value, ok := l.dotenv[key]; ok {
		return value
	}
	return fallback
}

func (l lookup) getInt(key string, fallback int) (int, error) {
	raw := l.get(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func (l lookup) getBool(key string, fallback bool) (bool, error) {
	raw := l.get(key, "")
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}

// Load reads settings from envFile (skipped when empty or missing) and the
// environment on top of Default. Existing environment variables win over the file.
func Load(envFile string) (*Config, error) {
	l := lookup{dotenv: map[string]string{}}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			l.dotenv = values
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	cfg := Default()
	var err error

	cfg.Scene = l.get("RAYTRACER_SCENE", cfg.Scene)
	cfg.Output = l.get("RAYTRACER_OUTPUT", cfg.Output)
	if cfg.Width, err = l.getInt("RAYTRACER_WIDTH", cfg.Width); err != nil {
		return nil, err
	}
	if cfg.Port, err = l.getInt("RAYTRACER_PORT", cfg.Port); err != nil {
		return nil, err
	}
	thumbnail, err := l.getInt("RAYTRACER_THUMBNAIL", int(cfg.Thumbnail))
	if err != nil {
		return nil, err
	}
	if thumbnail < 0 {
		return nil, fmt.Errorf("invalid RAYTRACER_THUMBNAIL %d: must not be negative", thumbnail)
	}
	cfg.Thumbnail = uint(thumbnail)
	if cfg.Upload, err = l.getBool("RAYTRACER_UPLOAD", cfg.Upload); err != nil {
		return nil, err
	}

	cfg.S3 = S3Config{
		AccessKey: l.get("S3_ACCESS_KEY", cfg.S3.AccessKey),
		SecretKey: l.get("S3_SECRET_KEY", cfg.S3.SecretKey),
		Endpoint:  l.get("S3_ENDPOINT", cfg.S3.Endpoint),
		Region:    l.get("S3_REGION", cfg.S3.Region),
		Bucket:    l.get("S3_BUCKET", cfg.S3.Bucket),
		Prefix:    l.get("S3_PREFIX", cfg.S3.Prefix),
		ACL:       l.get("S3_ACL", cfg.S3.ACL),
	}

	return &cfg, nil
}

// RegisterFlags binds the CLI flags to the config fields, so values already
// loaded become the flag defaults
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Scene, "scene", c.Scene, "Scene preset: sky, sphere, normal-sphere or spheres")
	fs.IntVar(&c.Width, "width", c.Width, "Image width in pixels; height follows the 16:9 aspect ratio")
	fs.StringVar(&c.Output, "out", c.Output, "Output file (.ppm, .png, .jpg, .gif, .bmp or .tiff)")
	fs.UintVar(&c.Thumbnail, "thumb", c.Thumbnail, "Also write a thumbnail no larger than this many pixels (0 disables)")
	fs.BoolVar(&c.Upload, "upload", c.Upload, "Upload the output to S3 after rendering")
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "Disable the progress bar")
	fs.IntVar(&c.Port, "port", c.Port, "Port to serve on (web server only)")
}

// Validate checks the settings that would otherwise fail late
func (c *Config) Validate() error {
	if c.Width < MinWidth {
		return fmt.Errorf("width must be at least %d so the image is at least 2 pixels tall, got %d", MinWidth, c.Width)
	}
	if c.Output == "" {
		return errors.New("output path must not be empty")
	}
	if c.Upload && c.S3.Bucket == "" {
		return errors.New("upload requested but S3_BUCKET is not set")
	}
	return nil
}
