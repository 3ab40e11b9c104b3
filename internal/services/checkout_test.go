package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCharges(t *testing.T) {
	tax, total := ComputeCharges(149000)
	assert.Equal(t, int64(13410), tax)
	assert.Equal(t, int64(187410), total)
}

func TestComputeChargesZeroSubtotal(t *testing.T) {
	tax, total := ComputeCharges(0)
	assert.Equal(t, int64(0), tax)
	assert.Equal(t, DeliveryFee, total)
}

func TestComputeChargesRoundsHalfUp(t *testing.T) {
	// 50 * 0.09 = 4.5, rounds up to 5
	tax, total := ComputeCharges(50)
	assert.Equal(t, int64(5), tax)
	assert.Equal(t, int64(50+5)+DeliveryFee, total)

	// 100 * 0.09 = 9 exactly
	tax, _ = ComputeCharges(100)
	assert.Equal(t, int64(9), tax)

	// 49 * 0.09 = 4.41, rounds down
	tax, _ = ComputeCharges(49)
	assert.Equal(t, int64(4), tax)
}

func TestUnavailableProductErrorMessage(t *testing.T) {
	err := &UnavailableProductError{Name: "Ghormeh Sabzi"}
	assert.Contains(t, err.Error(), "Ghormeh Sabzi")
	assert.Contains(t, err.Error(), "unavailable")
}
