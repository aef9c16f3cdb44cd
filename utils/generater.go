package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateInviteCode returns a 6-digit code used in sub-provider invite emails.
func GenerateInviteCode() string {
	var number [3]byte
	rand.Read(number[:])
	n := int(number[0])<<16 | int(number[1])<<8 | int(number[2])
	return fmt.Sprintf("%06d", n%1000000)
}

// GenerateTempPassword returns a random password for accounts created on
// behalf of a client or invited sub-provider.
func GenerateTempPassword() string {
	b := make([]byte, 12)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
