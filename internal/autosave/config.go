package autosave

import "time"

// StorageType selects the backing store generated media is saved to.
type StorageType string

const (
	StorageTypeFs  StorageType = "fs"
	StorageTypeS3  StorageType = "s3"
	StorageTypeGcs StorageType = "gcs"
)

// S3Config holds the settings for an S3-compatible bucket.
type S3Config struct {
	BucketName string `conf:"bucket_name" yaml:"bucket_name" json:"bucket_name"`
	Endpoint   string `conf:"endpoint"    yaml:"endpoint"    json:"endpoint"`
	Region     string `conf:"region"      yaml:"region"      json:"region"`
	AccessKey  string `conf:"access_key"  yaml:"access_key"  json:"access_key"`
	SecretKey  string `conf:"secret_key"  yaml:"secret_key"  json:"secret_key"`
}

// GCSConfig holds the settings for a Google Cloud Storage bucket.
type GCSConfig struct {
	BucketName string `conf:"bucket_name" yaml:"bucket_name" json:"bucket_name"`

	// Credential is the service account JSON, inline.
	Credential string `conf:"credential" yaml:"credential" json:"credential"`
}

// Config controls the best-effort auto-save that runs after successful
// generations.
type Config struct {
	// Enabled is the configured default; the per-user preference can
	// still turn saving off for a single request.
	Enabled bool `conf:"enabled" yaml:"enabled" json:"enabled"`

	Type StorageType `conf:"type" yaml:"type" json:"type"`

	// Directory is the local root for fs storage.
	Directory string `conf:"directory" yaml:"directory" json:"directory"`

	S3  *S3Config  `conf:"s3"  yaml:"s3,omitempty"  json:"s3,omitempty"`
	GCS *GCSConfig `conf:"gcs" yaml:"gcs,omitempty" json:"gcs,omitempty"`

	// DirectoryName is the subdirectory saved media is grouped under
	// when the user has not chosen one.
	DirectoryName string `conf:"directory_name" yaml:"directory_name" json:"directory_name"`

	// MaxConcurrent bounds parallel media downloads per save.
	MaxConcurrent int `conf:"max_concurrent" yaml:"max_concurrent" json:"max_concurrent"`

	// FetchTimeout bounds each individual media download.
	FetchTimeout time.Duration `conf:"fetch_timeout" yaml:"fetch_timeout" json:"fetch_timeout"`
}

// DefaultConfig returns the local filesystem defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		Type:          StorageTypeFs,
		Directory:     "./media",
		DirectoryName: "generations",
		MaxConcurrent: 4,
		FetchTimeout:  60 * time.Second,
	}
}
