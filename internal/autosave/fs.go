package autosave

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/afero/gcsfs"
	"golang.org/x/oauth2/google"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3fs "github.com/looplj/afero-s3"
	googleoption "google.golang.org/api/option"
)

// NewFs builds the afero filesystem for config. Remote backends are
// wrapped in a read cache because saved media is often re-read right
// after writing.
func NewFs(ctx context.Context, config Config) (afero.Fs, error) {
	switch config.Type {
	case StorageTypeFs:
		if config.Directory == "" {
			return nil, fmt.Errorf("directory not configured for fs storage")
		}

		return afero.NewBasePathFs(afero.NewOsFs(), config.Directory), nil
	case StorageTypeS3:
		if config.S3 == nil {
			return nil, fmt.Errorf("s3 settings not configured")
		}

		fs, err := newS3Fs(ctx, config.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 filesystem: %w", err)
		}

		return fs, nil
	case StorageTypeGcs:
		if config.GCS == nil {
			return nil, fmt.Errorf("gcs settings not configured")
		}

		fs, err := newGcsFs(ctx, config.GCS)
		if err != nil {
			return nil, fmt.Errorf("failed to create gcs filesystem: %w", err)
		}

		return fs, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}

func newS3Fs(ctx context.Context, s3Config *S3Config) (afero.Fs, error) {
	credProvider := awscredentials.NewStaticCredentialsProvider(
		s3Config.AccessKey,
		s3Config.SecretKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s3Config.Region),
		awsconfig.WithCredentialsProvider(credProvider),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if s3Config.Endpoint != "" {
			o.BaseEndpoint = lo.ToPtr(s3Config.Endpoint)
		}
	})

	baseFs := s3fs.NewFsFromClient(s3Config.BucketName, client)

	return afero.NewCacheOnReadFs(baseFs, afero.NewMemMapFs(), 5*time.Minute), nil
}

func newGcsFs(ctx context.Context, gcsConfig *GCSConfig) (afero.Fs, error) {
	creds, err := google.CredentialsFromJSON(ctx, []byte(gcsConfig.Credential), storage.ScopeFullControl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GCP credentials: %w", err)
	}

	client, err := storage.NewClient(ctx, googleoption.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	fs, err := gcsfs.NewGcsFSFromClient(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS filesystem: %w", err)
	}

	basePathFs := afero.NewBasePathFs(fs, gcsConfig.BucketName)

	return afero.NewCacheOnReadFs(basePathFs, afero.NewMemMapFs(), 5*time.Minute), nil
}
