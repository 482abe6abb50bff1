package random

import (
	crand "crypto/rand"
	"math/rand/v2"
)

func CryptoRand() (r *rand.Rand) {
	var seed [32]byte
	crand.Reader.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}
