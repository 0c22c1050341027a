package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateK(t *testing.T) {
	t.Run("positive k", func(t *testing.T) {
		assert.NoError(t, ValidateK(1))
		assert.NoError(t, ValidateK(100))
	})

	t.Run("zero k", func(t *testing.T) {
		err := ValidateK(0)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("negative k", func(t *testing.T) {
		err := ValidateK(-5)
		assert.ErrorIs(t, err, ErrInvalidK)
	})
}

func TestValidateAlpha(t *testing.T) {
	t.Run("boundaries are valid", func(t *testing.T) {
		assert.NoError(t, ValidateAlpha(0.0))
		assert.NoError(t, ValidateAlpha(0.5))
		assert.NoError(t, ValidateAlpha(1.0))
	})

	t.Run("out of range", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAlpha(-0.01), ErrInvalidAlpha)
		assert.ErrorIs(t, ValidateAlpha(1.01), ErrInvalidAlpha)
	})

	t.Run("NaN", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAlpha(math.NaN()), ErrInvalidAlpha)
	})
}
