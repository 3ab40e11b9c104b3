package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessRedirectCarriesReference(t *testing.T) {
	svc := NewPaymentService(nil, "simulated", "/payment/success", "/payment/failure")
	assert.Equal(t, "/payment/success?ref=ref-1001", svc.SuccessRedirect("ref-1001"))
}
