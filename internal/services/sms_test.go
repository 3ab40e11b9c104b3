package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogSMSSenderAlwaysDelivers(t *testing.T) {
	var sender SMSSender = LogSMSSender{}
	assert.True(t, sender.Send("09121111111", "042042"))
}
