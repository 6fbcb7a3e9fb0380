package wireless

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePSK(t *testing.T) {
	// IEEE 802.11i test vectors
	assert.Equal(t,
		"f42c6fc52df0ebef9ebb4b90b38a5f902e83fe1b135a70e23aed762e9710a12e",
		DerivePSK("IEEE", "password"))
	assert.Equal(t,
		"0dc0d6eb90555ed6419756b9a15ec3e3209b63df707dd508d14581f8982721af",
		DerivePSK("ThisIsASSID", "ThisIsAPassword"))
}
