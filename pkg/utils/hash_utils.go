package utils

import (
	"crypto/md5"
	"fmt"
)

// CalculateHash generates a consistent MD5 hex digest. Used for cache keys and log masking.
func CalculateHash(data string) string {
	if data == "" {
		return ""
	}
	hash := md5.Sum([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// CalculateHashShort returns the first 8 characters of CalculateHash
func CalculateHashShort(data string) string {
	full := CalculateHash(data)
	if len(full) >= 8 {
		return full[:8]
	}
	return full
}
