package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettings(t *testing.T) {
	settings, err := NewSettings(7, 3, true)
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, settings.ResendWindow())
	assert.True(t, settings.SellCorrections)

	_, err = NewSettings(0, 3, false)
	assert.ErrorIs(t, err, ErrInvalidReviewExpiration)

	_, err = NewSettings(7, 0, false)
	assert.ErrorIs(t, err, ErrInvalidRecuseExpiration)
}

func TestNewProduct(t *testing.T) {
	product, err := NewProduct("Plano ESA", "plan-esa", CourseEsa, 30*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, ProductStatusActive, product.Status)

	_, err = NewProduct("", "plan-esa", CourseEsa, 30*24*time.Hour)
	assert.ErrorIs(t, err, ErrEmptyProductName)

	_, err = NewProduct("Plano", "", CourseEsa, 30*24*time.Hour)
	assert.ErrorIs(t, err, ErrEmptyProductCode)

	_, err = NewProduct("Plano", "plan-esa", CourseEsa, 0)
	assert.ErrorIs(t, err, ErrInvalidExpirationTime)
}
