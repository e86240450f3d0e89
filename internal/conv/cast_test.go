//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64ToInt(t *testing.T) {
	t.Run("valid positive", func(t *testing.T) {
		got, err := Int64ToInt(123)
		assert.NoError(t, err)
		assert.Equal(t, 123, got)
	})

	t.Run("valid negative", func(t *testing.T) {
		got, err := Int64ToInt(-5)
		assert.NoError(t, err)
		assert.Equal(t, -5, got)
	})

	t.Run("valid max int64", func(t *testing.T) {
		got, err := Int64ToInt(math.MaxInt64)
		// int is 64 bits on amd64/arm64
		assert.NoError(t, err)
		assert.Equal(t, math.MaxInt, got)
	})
}

func TestUint64ToInt64(t *testing.T) {
	t.Run("valid max int64", func(t *testing.T) {
		got, err := Uint64ToInt64(math.MaxInt64)
		assert.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Uint64ToInt64(math.MaxInt64 + 1)
		assert.Error(t, err)
	})
}
