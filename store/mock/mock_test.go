package mock_test

import (
	"sync"
	"testing"
	"time"

	"github.com/birthdates/Crypto-Store/store/mock"
	"github.com/birthdates/Crypto-Store/store/testsuite"
)

func Test_Suite(t *testing.T) {
	var mu sync.Mutex
	now := time.Now()

	m := mock.New(mock.Config{
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
	})

	testsuite.Test(t, m, testsuite.Clock{
		TTL: time.Minute,
		Sleep: func() {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(time.Minute + time.Second)
		},
	})
}
