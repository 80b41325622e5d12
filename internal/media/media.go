// Package media wraps the external media host behind a single
// delete-asset capability. Uploads happen client-side; the server only
// revokes assets on behalf of authenticated users.
package media

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Host is the opaque media-host boundary.
type Host interface {
	DeleteAsset(ctx context.Context, publicID string) error
}

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("media: init cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) DeleteAsset(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("media: destroy %s: %w", publicID, err)
	}
	// Cloudinary reports "not found" for already-deleted assets; that
	// outcome is as final as "ok".
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("media: destroy %s: unexpected result %q", publicID, res.Result)
	}
	return nil
}
