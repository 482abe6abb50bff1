package transaction

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Image fetches the QR code image bytes for the session's deposit
// address.
func (c *Controller) Image(ctx context.Context, session string) (image []byte, err error) {
	record, err := c.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, record.ImageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer res.Body.Close()

	image, err = io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return image, nil
}
