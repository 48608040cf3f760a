package config

import (
	"fmt"
	"os"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`

	OpenAPI openAPIConfig `koanf:"openapi"`
}

type openAPIConfig struct {
	Enabled    bool   `koanf:"enabled"`
	PublicHost string `koanf:"public_host"`
	PublicPath string `koanf:"public_path"`
}

type storageConfig struct {
	DataDir           string         `koanf:"data_dir"`
	GCIntervalSeconds int64          `koanf:"gc_interval_seconds"`
	Binaries          binariesConfig `koanf:"binaries"`
}

type binariesConfig struct {
	Driver string   `koanf:"driver"`
	FSRoot string   `koanf:"fs_root"`
	S3     s3Config `koanf:"s3"`
}

type s3Config struct {
	Bucket       string `koanf:"bucket"`
	Region       string `koanf:"region"`
	Endpoint     string `koanf:"endpoint"`
	UsePathStyle bool   `koanf:"use_path_style"`
	AccessKey    string `koanf:"access_key"`
	SecretKey    string `koanf:"secret_key"`
	Prefix       string `koanf:"prefix"`
}

type authConfig struct {
	JWTSecret         string `koanf:"jwt_secret"`
	Issuer            string `koanf:"issuer"`
	AccessTTLSeconds  int64  `koanf:"access_ttl_seconds"`
	RefreshTTLSeconds int64  `koanf:"refresh_ttl_seconds"`
}

type bootstrapConfig struct {
	Login    string `koanf:"login"`
	Password string `koanf:"password"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage   storageConfig   `koanf:"storage"`
	Auth      authConfig      `koanf:"auth"`
	Bootstrap bootstrapConfig `koanf:"bootstrap"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},
		},

		Storage: storageConfig{
			DataDir:           "./data/db",
			GCIntervalSeconds: 600,
			Binaries: binariesConfig{
				Driver: "fs",
				FSRoot: "./data/apks",
				S3: s3Config{
					Region: "us-east-1",
					Prefix: "apks/",
				},
			},
		},

		Auth: authConfig{
			Issuer:            "droid-deploy",
			AccessTTLSeconds:  900,
			RefreshTTLSeconds: 604800,
		},

		Bootstrap: bootstrapConfig{
			Login: "admin",
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.Bootstrap.Login == "" || c.Bootstrap.Password == "" {
		return fmt.Errorf("bootstrap login and password are required")
	}

	switch c.Storage.Binaries.Driver {
	case "fs":
		if c.Storage.Binaries.FSRoot == "" {
			return fmt.Errorf("binaries fs_root is required for the fs driver")
		}
	case "s3":
		if c.Storage.Binaries.S3.Bucket == "" {
			return fmt.Errorf("binaries s3 bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown binaries driver %q", c.Storage.Binaries.Driver)
	}

	return nil
}
