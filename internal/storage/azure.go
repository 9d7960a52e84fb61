package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

// AzureConfig identifies a blob container reachable with a pre-issued SAS token.
type AzureConfig struct {
	Account   string
	Container string
	SAS       string
	// ServiceURL overrides https://<account>.blob.core.windows.net/ (Azurite, sovereign clouds).
	ServiceURL string
}

// AzureStorage implements Storage on Azure Blob Storage. Every request carries
// the SAS token; there is no credential refresh.
type AzureStorage struct {
	container *container.Client
}

// NewAzureStorage creates a container client authenticated by cfg.SAS.
func NewAzureStorage(cfg AzureConfig) (*AzureStorage, error) {
	if cfg.Container == "" || cfg.SAS == "" || (cfg.Account == "" && cfg.ServiceURL == "") {
		return nil, ErrInvalidConfig
	}

	serviceURL := cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.Account)
	}
	serviceURL = strings.TrimRight(serviceURL, "/") + "/?" + strings.TrimPrefix(cfg.SAS, "?")

	client, err := azblob.NewClientWithNoCredential(serviceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &AzureStorage{
		container: client.ServiceClient().NewContainerClient(cfg.Container),
	}, nil
}

// List returns a flat listing of the container.
func (s *AzureStorage) List(ctx context.Context) ([]Object, error) {
	var out []Object
	pager := s.container.NewListBlobsFlatPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, wrapAzureError(err, ErrListFailed)
		}
		if page.Segment == nil {
			continue
		}
		for _, item := range page.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			obj := Object{Key: *item.Name, ContentType: DefaultContentType}
			if p := item.Properties; p != nil {
				if p.ContentType != nil {
					obj.ContentType = contentTypeOr(*p.ContentType)
				}
				if p.ContentLength != nil {
					obj.Size = *p.ContentLength
				}
				if p.LastModified != nil {
					obj.LastModified = *p.LastModified
				}
			}
			out = append(out, obj)
		}
	}
	return out, nil
}

// Upload writes reader as a block blob with the given content type header.
func (s *AzureStorage) Upload(ctx context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	ct := contentTypeOr(contentType)
	_, err := s.container.NewBlockBlobClient(key).UploadStream(ctx, reader, &blockblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &ct},
	})
	if err != nil {
		return wrapAzureError(err, ErrUploadFailed)
	}
	return nil
}

// Delete removes the blob. A missing blob is reported as ErrNotFound.
func (s *AzureStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.container.NewBlobClient(key).Delete(ctx, nil); err != nil {
		return wrapAzureError(err, ErrDeleteFailed)
	}
	return nil
}

// PublicURL returns the blob URL including the SAS query, directly fetchable
// by a browser for as long as the token is valid.
func (s *AzureStorage) PublicURL(key string) string {
	return s.container.NewBlobClient(key).URL()
}

func wrapAzureError(err error, fallback error) error {
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case bloberror.HasCode(err,
		bloberror.AuthenticationFailed,
		bloberror.AuthorizationFailure,
		bloberror.AuthorizationPermissionMismatch,
		bloberror.InsufficientAccountPermissions,
	):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

var _ Storage = (*AzureStorage)(nil)
