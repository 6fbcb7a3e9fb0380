package dns

// DNS packet constants
const (
	// Fixed header layout
	headerIDOffset      = 0
	headerQDCountOffset = 4
	headerSize          = 12

	// Response flags: QR set, RA set, no error
	responseFlags = 0x8180

	// Answer record fields
	typeA      = 0x0001
	classIN    = 0x0001
	answerTTL  = 60
	rdLengthA  = 4
	bufferSize = 512 // standard DNS UDP packet size

	defaultPort = 53
)

// namePointer is a compression pointer back to the question name at offset 12
var namePointer = []byte{0xC0, 0x0C}
