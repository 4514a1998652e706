package icekit

import (
	"os"
	"strings"
	"testing"
)

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		want    Config
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			want: Config{
				ManifestConcurrency: 7,
				ProbeConcurrency:    13,
				BatchedVerification: true,
				LogLevel:            "warn",
			},
		},
		{
			name: "s3 configuration",
			envVars: map[string]string{
				"BEAVER_ICEKIT_S3_REGION":            "us-west-2",
				"BEAVER_ICEKIT_S3_ACCESS_KEY_ID":     "test-key",
				"BEAVER_ICEKIT_S3_SECRET_ACCESS_KEY": "test-secret",
				"BEAVER_ICEKIT_S3_ENDPOINT":          "http://localhost:9000",
				"BEAVER_ICEKIT_S3_FORCE_PATH_STYLE":  "true",
			},
			want: Config{
				S3Region:            "us-west-2",
				S3AccessKeyID:       "test-key",
				S3SecretAccessKey:   "test-secret",
				S3Endpoint:          "http://localhost:9000",
				S3ForcePathStyle:    true,
				ManifestConcurrency: 7,
				ProbeConcurrency:    13,
				BatchedVerification: true,
				LogLevel:            "warn",
			},
		},
		{
			name: "walk tunables",
			envVars: map[string]string{
				"BEAVER_ICEKIT_MANIFEST_CONCURRENCY":       "3",
				"BEAVER_ICEKIT_PROBE_CONCURRENCY":          "5",
				"BEAVER_ICEKIT_PROBE_RETRIES":              "2",
				"BEAVER_ICEKIT_BATCHED_VERIFICATION":       "false",
				"BEAVER_ICEKIT_LOG_LEVEL":                  "debug",
				"BEAVER_ICEKIT_LOCAL_BASE_PATH":            "/warehouse",
				"BEAVER_ICEKIT_AZURE_ACCOUNT_NAME":         "acct",
				"BEAVER_ICEKIT_GCS_CREDENTIALS_FILE":       "/etc/sa.json",
				"BEAVER_ICEKIT_S3_LIST_WITH_DEFAULT_CHAIN": "true",
			},
			want: Config{
				LocalBasePath:          "/warehouse",
				S3ListWithDefaultChain: true,
				GCSCredentialsFile:     "/etc/sa.json",
				AzureAccountName:       "acct",
				ManifestConcurrency:    3,
				ProbeConcurrency:       5,
				ProbeRetries:           2,
				BatchedVerification:    false,
				LogLevel:               "debug",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := GetConfig()
			if err != nil {
				t.Fatalf("GetConfig() error = %v", err)
			}
			if *cfg != tt.want {
				t.Errorf("GetConfig() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{ManifestConcurrency: 7, ProbeConcurrency: 13}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero manifest concurrency", mutate: func(c *Config) { c.ManifestConcurrency = 0 }, wantErr: true},
		{name: "zero probe concurrency", mutate: func(c *Config) { c.ProbeConcurrency = 0 }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.ProbeRetries = -1 }, wantErr: true},
		{name: "access key without secret", mutate: func(c *Config) { c.S3AccessKeyID = "k" }, wantErr: true},
		{name: "full s3 keys", mutate: func(c *Config) { c.S3AccessKeyID, c.S3SecretAccessKey = "k", "s" }},
		{name: "azure key without account", mutate: func(c *Config) { c.AzureAccountKey = "k" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestHasStaticS3Credentials(t *testing.T) {
	cfg := &Config{S3AccessKeyID: "k", S3SecretAccessKey: "s"}
	if cfg.HasStaticS3Credentials() {
		t.Error("expected false without region")
	}
	cfg.S3Region = "eu-west-1"
	if !cfg.HasStaticS3Credentials() {
		t.Error("expected true with keys and region")
	}
}

func init() {
	// Keep a developer's shell from leaking into the config tests.
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, "BEAVER_ICEKIT_") {
			os.Unsetenv(key)
		}
	}
}
