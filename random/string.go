package random

import (
	"math/rand/v2"
)

const CharsetAlphaNumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenLength leaves session tokens with well over 128 bits of
// entropy while staying cookie-safe without encoding.
const TokenLength = 64

func String(r *rand.Rand, options string, length int) (s string) {
	rOptions := []rune(options)

	var temp = make([]rune, length)
	for index := range temp {
		temp[index] = rOptions[r.IntN(len(rOptions))]
	}
	return string(temp)
}

// Token mints an opaque session bearer token.
func Token() (token string) {
	return String(CryptoRand(), CharsetAlphaNumeric, TokenLength)
}
