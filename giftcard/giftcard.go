package giftcard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Issuer mints a store-credit code for a USD balance.
type Issuer interface {
	Issue(ctx context.Context, balance decimal.Decimal) (code string, err error)
}

// Backend selects the store-credit provider. It is configured
// explicitly at startup, never inferred from which secret happens
// to be set.
type Backend string

const (
	BackendTebex         Backend = "tebex"
	BackendCraftingStore Backend = "craftingstore"
)

func (b Backend) Validate() (err error) {
	switch b {
	case BackendTebex, BackendCraftingStore:
		return nil
	}
	return fmt.Errorf("unknown giftcard backend: %q", b)
}
