// Package random generates verification codes and approval tokens.
package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Otp returns a 6-digit numeric one-time code.
func Otp() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the platform is broken
		panic(fmt.Sprintf("random: %v", err))
	}
	return fmt.Sprintf("%d", n.Int64()+100000)
}

// Token returns a 64-character hex token with 32 bytes of entropy, used for
// single-use approval links.
func Token() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("random: %v", err))
	}
	return hex.EncodeToString(buf)
}
