// Package tokens mints the opaque bearer tokens handed to anonymous
// participants. Tokens are 128 bits of platform randomness, hex
// encoded, so they are URL safe and fixed length.
package tokens

import (
	"crypto/rand"
	"encoding/hex"
)

// Length is the encoded length of every token.
const Length = 32

// New returns a fresh unguessable token.
func New() string {
	buf := make([]byte, Length/2)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read only fails if the platform CSPRNG is broken,
		// at which point no token we mint can be trusted.
		panic(err)
	}
	return hex.EncodeToString(buf)
}
