package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	shopIDMin   = 100000
	shopIDRange = 900000 // shop ids are 6 digits: 100000..999999
	itemIDMod   = 1_000_000_000
)

// GenerateProductID generates a marketplace style product id.
// Format: i.<shopId>.<itemId>
// Example: i.482913.729104551
//
// shopId is random; itemId is the last 9 digits of the time in centiseconds.
func GenerateProductID(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(shopIDRange))
	if err != nil {
		return "", err
	}
	shopID := shopIDMin + n.Int64()
	itemID := (now.UnixMilli() / 10) % itemIDMod
	return fmt.Sprintf("i.%d.%09d", shopID, itemID), nil
}
