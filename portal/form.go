package portal

import "strings"

// decodeForm extracts key/value pairs from an urlencoded request body.
// The body starts after the first blank-line separator. Only "+" and the
// literal "%20" are decoded to spaces; other percent escapes pass through
// untouched, matching the portal's form encoding.
func decodeForm(request string) map[string]string {
	params := make(map[string]string)

	_, body, found := strings.Cut(request, "\r\n\r\n")
	if !found {
		return params
	}

	for _, pair := range strings.Split(body, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		value = strings.ReplaceAll(value, "+", " ")
		value = strings.ReplaceAll(value, "%20", " ")
		params[key] = value
	}

	return params
}
