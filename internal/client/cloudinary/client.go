package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"gst_billing/internal/conf"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrNotConfigured = errors.New("cloudinary credentials are not configured")

// Client uploads images to one Cloudinary folder.
type Client struct {
	cld    *cld.Cloudinary
	folder string
}

// NewClient creates a Cloudinary client. It returns ErrNotConfigured when any
// credential is missing.
func NewClient(cfg *conf.CloudinaryConfig) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	c, err := cld.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	c.Config.URL.Secure = true

	return &Client{
		cld:    c,
		folder: cfg.Folder,
	}, nil
}

// Upload stores a PNG under publicID and returns its secure URL.
func (c *Client) Upload(ctx context.Context, publicID string, png []byte) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(png), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       c.folder,
		ResourceType: "image",
		Format:       "png",
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload rejected: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("cloudinary upload returned no url")
	}
	return resp.SecureURL, nil
}
