package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("UPLOAD_MAX_BYTES", "")
	t.Setenv("GALLERY_OVERLAP", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("SERVER_WRITE_TIMEOUT", "")

	cfg := Load()

	require.Equal(t, DriverMinio, cfg.StorageDriver)
	require.Equal(t, int64(100<<20), cfg.UploadMaxBytes)
	require.Equal(t, OverlapQueue, cfg.GalleryOverlap)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 2*time.Minute, cfg.WriteTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Azure")
	t.Setenv("STORAGE_ACCOUNT", "acct")
	t.Setenv("STORAGE_CONTAINER", "media")
	t.Setenv("STORAGE_SAS", "sv=2024&sig=abc")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")
	t.Setenv("GALLERY_OVERLAP", "REJECT")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SERVER_WRITE_TIMEOUT", "30s")

	cfg := Load()

	require.Equal(t, DriverAzure, cfg.StorageDriver)
	require.True(t, cfg.StorageUseSSL)
	require.Equal(t, int64(1024), cfg.UploadMaxBytes)
	require.Equal(t, OverlapReject, cfg.GalleryOverlap)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.WriteTimeout)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "minio complete",
			cfg: Config{StorageDriver: DriverMinio, StorageEndpoint: "localhost:9000", StorageAccessKey: "a",
				StorageSecretKey: "s", StorageBucket: "b", GalleryOverlap: OverlapQueue, UploadMaxBytes: 1},
		},
		{
			name: "minio missing endpoint",
			cfg: Config{StorageDriver: DriverMinio, StorageAccessKey: "a", StorageSecretKey: "s",
				StorageBucket: "b", GalleryOverlap: OverlapQueue, UploadMaxBytes: 1},
			wantErr: true,
		},
		{
			name: "s3 without endpoint",
			cfg: Config{StorageDriver: DriverS3, StorageAccessKey: "a", StorageSecretKey: "s",
				StorageBucket: "b", GalleryOverlap: OverlapQueue, UploadMaxBytes: 1},
		},
		{
			name:    "azure missing sas",
			cfg:     Config{StorageDriver: DriverAzure, StorageAccount: "acct", StorageContainer: "c", GalleryOverlap: OverlapQueue, UploadMaxBytes: 1},
			wantErr: true,
		},
		{
			name: "memory",
			cfg:  Config{StorageDriver: DriverMemory, GalleryOverlap: OverlapReject, UploadMaxBytes: 1},
		},
		{
			name:    "unknown driver",
			cfg:     Config{StorageDriver: "ftp", GalleryOverlap: OverlapQueue, UploadMaxBytes: 1},
			wantErr: true,
		},
		{
			name:    "bad overlap",
			cfg:     Config{StorageDriver: DriverMemory, GalleryOverlap: "later-wins", UploadMaxBytes: 1},
			wantErr: true,
		},
		{
			name:    "non-positive upload limit",
			cfg:     Config{StorageDriver: DriverMemory, GalleryOverlap: OverlapQueue},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).SlogLevel())
	require.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warning"}).SlogLevel())
	require.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
	require.Equal(t, slog.LevelInfo, (&Config{LogLevel: "verbose"}).SlogLevel())
}
