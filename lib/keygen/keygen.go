// Package keygen produces the opaque codes used in public deep links.
package keygen

import (
	"crypto/rand"
	"fmt"
)

const (
	Alphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	DefaultLength = 32
)

// 62*4 = 248: bytes at or above this are rejected so every symbol is equally likely
const maxByte = 256 - 256%len(Alphabet)

// Generate returns length symbols from Alphabet read from the system CSPRNG.
// A non-positive length falls back to DefaultLength.
func Generate(length int) string {
	if length <= 0 {
		length = DefaultLength
	}
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/4)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand only fails when the kernel source is unusable
			panic(fmt.Sprintf("keygen: reading random bytes: %v", err))
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out)
}
