package azure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/gobeaver/icekit"
)

// Adapter provides read access to one Azure Blob Storage container
type Adapter struct {
	client        *azblob.Client
	containerName string
}

// New creates a new Azure Blob Storage adapter for containerName
func New(client *azblob.Client, containerName string) *Adapter {
	return &Adapter{
		client:        client,
		containerName: containerName,
	}
}

// Read implements icekit.FileReader
func (a *Adapter) Read(ctx context.Context, blobName string) (io.ReadCloser, error) {
	resp, err := a.client.DownloadStream(ctx, a.containerName, blobName, nil)
	if err != nil {
		return nil, mapAzureError("read", blobName, err)
	}

	return resp.Body, nil
}

// ReadAll implements icekit.FileReader
func (a *Adapter) ReadAll(ctx context.Context, blobName string) ([]byte, error) {
	rc, err := a.Read(ctx, blobName)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// FileExists implements icekit.FileReader
func (a *Adapter) FileExists(ctx context.Context, blobName string) (bool, error) {
	if blobName == "" || strings.HasSuffix(blobName, "/") {
		return false, nil
	}

	blobClient := a.client.ServiceClient().NewContainerClient(a.containerName).NewBlobClient(blobName)
	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, mapAzureError("fileexists", blobName, err)
	}

	// hdi_isfolder marks directories on hierarchical namespace accounts
	if props.ContentType != nil && *props.ContentType == "application/x-directory" {
		return false, nil
	}
	if v, ok := props.Metadata["hdi_isfolder"]; ok && v != nil && *v == "true" {
		return false, nil
	}

	return true, nil
}

// mapAzureError maps Azure errors to icekit errors
func mapAzureError(op, blobName string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return icekit.NewPathError(op, blobName, icekit.ErrNotExist)
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return icekit.NewPathError(op, blobName, icekit.ErrNotExist)
		case http.StatusForbidden:
			return icekit.NewPathError(op, blobName, icekit.ErrPermission)
		}
	}

	return icekit.NewPathError(op, blobName, err)
}

var _ icekit.FileReader = (*Adapter)(nil)
