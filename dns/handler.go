package dns

import "encoding/binary"

// buildResponse constructs the redirect answer for a raw query.
// The question section is reused verbatim rather than re-encoded, which
// keeps the answer wire compatible with whatever encoding arrived.
// A malformed query yields nil.
func (s *Server) buildResponse(query []byte) []byte {
	if len(query) < headerSize {
		return nil
	}

	question := query[headerSize:]

	// Decoded name is used for diagnostics only
	if domain, err := decodeDomainName(question); err == nil {
		s.log.Debugf("query for %s -> %s", domain, s.portalIP)
	}

	portalIP := s.portalIP.To4()
	if portalIP == nil {
		return nil
	}

	response := make([]byte, 0, headerSize+len(question)+16)
	response = append(response, query[headerIDOffset:headerIDOffset+2]...)
	response = binary.BigEndian.AppendUint16(response, responseFlags)
	response = append(response, query[headerQDCountOffset:headerQDCountOffset+2]...)
	response = binary.BigEndian.AppendUint16(response, 1) // answer count
	response = binary.BigEndian.AppendUint16(response, 0) // authority count
	response = binary.BigEndian.AppendUint16(response, 0) // additional count
	response = append(response, question...)

	response = append(response, namePointer...)
	response = binary.BigEndian.AppendUint16(response, typeA)
	response = binary.BigEndian.AppendUint16(response, classIN)
	response = binary.BigEndian.AppendUint32(response, answerTTL)
	response = binary.BigEndian.AppendUint16(response, rdLengthA)
	response = append(response, portalIP...)

	return response
}
