package fluidpath

import (
	"errors"
	"fmt"

	"github.com/gobeaver/beaver-kit/config"
)

// Config holds the settings read from BEAVER_FLUIDPATH_* variables.
type Config struct {
	// Logging (trace, debug, info, warn, error)
	LogLevel  string `env:"FLUIDPATH_LOG_LEVEL,default:warn"`
	LogFormat string `env:"FLUIDPATH_LOG_FORMAT,default:console"` // console or json

	// Transfer behaviour
	Concurrency     int    `env:"FLUIDPATH_CONCURRENCY,default:1"`
	TwoPhaseMove    bool   `env:"FLUIDPATH_TWO_PHASE_MOVE,default:false"`
	Verify          bool   `env:"FLUIDPATH_VERIFY,default:false"`
	VerifyAlgorithm string `env:"FLUIDPATH_VERIFY_ALGORITHM,default:xxhash"`

	// S3 store configuration
	S3Region          string `env:"FLUIDPATH_S3_REGION,default:us-east-1"`
	S3Endpoint        string `env:"FLUIDPATH_S3_ENDPOINT"`
	S3AccessKeyID     string `env:"FLUIDPATH_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"FLUIDPATH_S3_SECRET_ACCESS_KEY"`
	S3ForcePathStyle  bool   `env:"FLUIDPATH_S3_FORCE_PATH_STYLE,default:false"`

	// GCS (Google Cloud Storage) store configuration
	GCSCredentialsFile string `env:"FLUIDPATH_GCS_CREDENTIALS_FILE"` // Path to service account JSON
	GCSEndpoint        string `env:"FLUIDPATH_GCS_ENDPOINT"`         // Emulator or private endpoint
	GCSAnonymous       bool   `env:"FLUIDPATH_GCS_ANONYMOUS,default:false"`

	// Azure Blob Storage store configuration
	AzureAccountName string `env:"FLUIDPATH_AZURE_ACCOUNT_NAME"`
	AzureAccountKey  string `env:"FLUIDPATH_AZURE_ACCOUNT_KEY"`
	AzureEndpoint    string `env:"FLUIDPATH_AZURE_ENDPOINT"` // Optional custom endpoint
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when nothing is set in the
// environment.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "warn",
		LogFormat:       "console",
		Concurrency:     1,
		VerifyAlgorithm: string(ChecksumXXHash),
		S3Region:        "us-east-1",
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}

	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.LogFormat)
	}

	if c.Verify {
		if c.VerifyAlgorithm == "" {
			return errors.New("verify algorithm is required when verify is enabled")
		}
		if _, err := NewHasher(ChecksumAlgorithm(c.VerifyAlgorithm)); err != nil {
			return err
		}
	}

	return nil
}
