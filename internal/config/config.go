package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Driver string
		Path   string
		URL    string
	}
	Auth struct {
		JWTSecret       string
		TokenTTLMinutes int
		Enforce         bool
	}
	Storage struct {
		Bucket          string
		Folder          string
		Region          string
		Endpoint        string
		PublicBaseURL   string
		AccessKeyID     string
		SecretAccessKey string
	}
	AWS struct {
		Profile string
	}
	Upload struct {
		MaxFileSize int64
		MaxFiles    int
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config files.
// Variables in a .env file are applied unless already set in the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("EMPDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:4000")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/employees.db")
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlminutes", 120)
	v.SetDefault("auth.enforce", true)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.folder", "comp3133_employees")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("storage.accesskeyid", "")
	v.SetDefault("storage.secretaccesskey", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("upload.maxfilesize", 5_000_000)
	v.SetDefault("upload.maxfiles", 1)
	v.SetDefault("log.level", "info")
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth jwt secret is required")
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("auth token ttl must be positive, got %d", c.Auth.TokenTTLMinutes)
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database url is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Upload.MaxFileSize <= 0 || c.Upload.MaxFiles <= 0 {
		return errors.New("upload limits must be positive")
	}
	return nil
}
