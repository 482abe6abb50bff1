package random_test

import (
	"testing"

	"github.com/birthdates/Crypto-Store/random"
	"github.com/stretchr/testify/assert"
)

func Test_Token(t *testing.T) {
	assertions := assert.New(t)

	seen := make(map[string]bool)
	for range 100 {
		token := random.Token()
		assertions.Len(token, random.TokenLength)
		assertions.False(seen[token], "tokens must not repeat")
		seen[token] = true

		for _, r := range token {
			assertions.Contains(random.CharsetAlphaNumeric, string(r))
		}
	}
}
