package icekit

import (
	"errors"
	"fmt"

	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Local driver configuration. An empty base path lets file locations
	// address the whole filesystem.
	LocalBasePath string `env:"ICEKIT_LOCAL_BASE_PATH"`

	// S3 driver configuration
	S3Region          string `env:"ICEKIT_S3_REGION"`
	S3Endpoint        string `env:"ICEKIT_S3_ENDPOINT"`
	S3AccessKeyID     string `env:"ICEKIT_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"ICEKIT_S3_SECRET_ACCESS_KEY"`
	S3SessionToken    string `env:"ICEKIT_S3_SESSION_TOKEN"`
	S3ForcePathStyle  bool   `env:"ICEKIT_S3_FORCE_PATH_STYLE,default:false"`
	// S3ListWithDefaultChain allows bulk listing when credentials come from
	// the SDK default chain rather than explicit keys.
	S3ListWithDefaultChain bool `env:"ICEKIT_S3_LIST_WITH_DEFAULT_CHAIN,default:false"`

	// GCS (Google Cloud Storage) driver configuration
	GCSCredentialsFile string `env:"ICEKIT_GCS_CREDENTIALS_FILE"` // Path to service account JSON
	GCSProjectID       string `env:"ICEKIT_GCS_PROJECT_ID"`

	// Azure Blob Storage driver configuration
	AzureAccountName string `env:"ICEKIT_AZURE_ACCOUNT_NAME"`
	AzureAccountKey  string `env:"ICEKIT_AZURE_ACCOUNT_KEY"`
	AzureEndpoint    string `env:"ICEKIT_AZURE_ENDPOINT"` // Optional custom endpoint

	// Snapshot walk tunables
	ManifestConcurrency int  `env:"ICEKIT_MANIFEST_CONCURRENCY,default:7"`
	ProbeConcurrency    int  `env:"ICEKIT_PROBE_CONCURRENCY,default:13"`
	ProbeRetries        int  `env:"ICEKIT_PROBE_RETRIES,default:0"`
	BatchedVerification bool `env:"ICEKIT_BATCHED_VERIFICATION,default:true"`

	LogLevel string `env:"ICEKIT_LOG_LEVEL,default:warn"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasStaticS3Credentials reports whether explicit S3 keys and a region are
// configured, which is what the S3 driver needs to build a listing client.
func (c *Config) HasStaticS3Credentials() bool {
	return c.S3AccessKeyID != "" && c.S3SecretAccessKey != "" && c.S3Region != ""
}

// ValidateConfig checks the configuration for inconsistent settings
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cfg.ManifestConcurrency < 1 {
		return fmt.Errorf("manifest concurrency must be at least 1, got %d", cfg.ManifestConcurrency)
	}
	if cfg.ProbeConcurrency < 1 {
		return fmt.Errorf("probe concurrency must be at least 1, got %d", cfg.ProbeConcurrency)
	}
	if cfg.ProbeRetries < 0 {
		return fmt.Errorf("probe retries cannot be negative, got %d", cfg.ProbeRetries)
	}
	if (cfg.S3AccessKeyID == "") != (cfg.S3SecretAccessKey == "") {
		return errors.New("S3 access key id and secret access key must be set together")
	}
	if cfg.AzureAccountKey != "" && cfg.AzureAccountName == "" {
		return errors.New("azure account name is required when an account key is set")
	}
	return nil
}
