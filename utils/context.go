package utils

import (
	"context"
	"time"
)

// DefaultTimeout bounds a full request's worth of store and gateway
// round-trips.
const DefaultTimeout = time.Minute

func NewContext() (ctx context.Context, cancel func()) {
	return context.WithTimeout(context.TODO(), DefaultTimeout)
}
