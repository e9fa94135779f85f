package serial

import (
	"testing"

	"github.com/serscope/serscope/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open("/nonexistent/ttyUSB99", 115200)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSerial))
	assert.Contains(t, err.Error(), "Cannot open serial port /nonexistent/ttyUSB99")
	assert.Contains(t, err.Error(), "Check the device path")
}
