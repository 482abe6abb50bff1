package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/birthdates/Crypto-Store/coinpayments"
	"github.com/birthdates/Crypto-Store/store"
)

// Get returns the session's transaction record. ErrNotFound when no
// record exists or it expired; ErrCorruptRecord when the stored
// payload doesn't decode.
func (c *Controller) Get(ctx context.Context, session string) (record Record, err error) {
	raw, err := c.store.Get(ctx, store.SessionKey(session))
	if errors.Is(err, store.ErrNotFound) {
		return record, ErrNotFound
	}
	if err != nil {
		return record, fmt.Errorf("failed to read record: %w", err)
	}

	err = json.Unmarshal([]byte(raw), &record)
	if err != nil {
		return record, ErrCorruptRecord
	}
	return record, nil
}

// FetchStatus returns the merged record and payment status for a
// session. A stored status (written by the webhook path) is
// authoritative; when none exists yet the gateway is polled directly
// and the synthesized status is not written back.
func (c *Controller) FetchStatus(ctx context.Context, session string) (merged RecordWithStatus, err error) {
	record, err := c.Get(ctx, session)
	if err != nil {
		return merged, err
	}

	var status Status
	raw, err := c.store.Get(ctx, store.StatusKey(record.ID))
	switch {
	case errors.Is(err, store.ErrNotFound):
		info, err := c.client.GetTx(ctx, record.ID)
		if err != nil {
			return merged, fmt.Errorf("failed to poll gateway: %w", err)
		}
		status = Status{
			Status:     info.Status,
			StatusText: coinpayments.StatusMessage(info.Status),
			Received:   info.Received,
			Amount:     info.Amount,
		}
	case err != nil:
		return merged, fmt.Errorf("failed to read status: %w", err)
	default:
		err = json.Unmarshal([]byte(raw), &status)
		if err != nil {
			return merged, ErrCorruptRecord
		}
	}

	return merge(record, status), nil
}
