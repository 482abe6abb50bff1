package transaction

import (
	"context"
	"fmt"

	"github.com/birthdates/Crypto-Store/store"
)

// Cancel removes the session's record and, when the record is
// readable, the status mapping of its gateway transaction. It reports
// whether anything was actually removed. This is best-effort cleanup;
// the gateway side of the payment is not cancelled.
func (c *Controller) Cancel(ctx context.Context, session string) (cancelled bool, err error) {
	keys := []string{store.SessionKey(session)}

	record, err := c.Get(ctx, session)
	if err == nil {
		keys = append(keys, store.StatusKey(record.ID))
	}

	removed, err := c.store.Del(ctx, keys...)
	if err != nil {
		return false, fmt.Errorf("failed to delete keys: %w", err)
	}
	return removed > 0, nil
}
