package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateInvoiceNumber returns INV-YYYYMMDD-HHMMSS-mmm-RRRR for the given
// instant, where RRRR is a cryptographically random suffix.
func GenerateInvoiceNumber(at time.Time) string {
	at = at.UTC()
	millis := at.Nanosecond() / int(time.Millisecond)

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(at.UnixNano() % 10000)
	}

	return fmt.Sprintf("INV-%s-%03d-%04d", at.Format("20060102-150405"), millis, n.Int64())
}
