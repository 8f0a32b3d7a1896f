package services

import (
	"crypto/rand"
	"math/big"
)

// GenerateOtpCode generates a 6-digit random passcode
func GenerateOtpCode() (string, error) {
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[num.Int64()]
	}
	return string(code), nil
}
