package storage

import (
	"context"
	"fmt"

	"github.com/radif/gallery/internal/config"
)

// Open builds the driver selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMinio:
		return NewMinioStorage(ctx, MinioConfig{
			Endpoint:   cfg.StorageEndpoint,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			Bucket:     cfg.StorageBucket,
			PublicBase: cfg.StoragePublicBase,
			UseSSL:     cfg.StorageUseSSL,
		})
	case config.DriverS3:
		return NewS3Storage(S3Config{
			Bucket:    cfg.StorageBucket,
			AccessKey: cfg.StorageAccessKey,
			SecretKey: cfg.StorageSecretKey,
			Region:    cfg.StorageRegion,
			Endpoint:  cfg.StorageEndpoint,
			PublicURL: cfg.StoragePublicBase,
			PathStyle: cfg.StoragePathStyle,
		})
	case config.DriverAzure:
		return NewAzureStorage(AzureConfig{
			Account:   cfg.StorageAccount,
			Container: cfg.StorageContainer,
			SAS:       cfg.StorageSAS,
		})
	case config.DriverMemory:
		return NewMemoryStorage("http://localhost:" + cfg.Port + MemoryRoute), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.StorageDriver)
	}
}

// MemoryRoute is where the HTTP server exposes MemoryStorage objects.
const MemoryRoute = "/objects"
