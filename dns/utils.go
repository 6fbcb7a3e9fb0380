package dns

import (
	"fmt"
	"strings"
)

// decodeDomainName decodes the length-prefixed labels at the start of a
// question section into a dotted name
func decodeDomainName(question []byte) (string, error) {
	var parts []string
	offset := 0

	for {
		if offset >= len(question) {
			return "", fmt.Errorf("name not terminated")
		}

		length := int(question[offset])
		offset++

		if length == 0 {
			break
		}
		if offset+length > len(question) {
			return "", fmt.Errorf("label exceeds question bounds")
		}

		parts = append(parts, string(question[offset:offset+length]))
		offset += length
	}

	return strings.Join(parts, "."), nil
}
