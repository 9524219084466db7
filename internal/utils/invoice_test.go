package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	at := time.Date(2026, 3, 9, 14, 5, 7, 42*int(time.Millisecond), time.UTC)

	t.Run("Format", func(t *testing.T) {
		inv := GenerateInvoiceNumber(at)

		parts := strings.Split(inv, "-")
		require.Len(t, parts, 5)
		assert.Equal(t, "INV", parts[0])
		assert.Equal(t, "20260309", parts[1])
		assert.Equal(t, "140507", parts[2])
		assert.Equal(t, "042", parts[3])
		assert.Len(t, parts[4], 4)
	})

	t.Run("Normalizes to UTC", func(t *testing.T) {
		jakarta := time.FixedZone("WIB", 7*3600)
		inv := GenerateInvoiceNumber(at.In(jakarta))
		assert.True(t, strings.HasPrefix(inv, "INV-20260309-140507-"))
	})
}
