package portal

import "strings"

// handlerFunc produces a full HTTP response and an optional action to run
// after the response has been delivered
type handlerFunc func(s *Server, request string) (string, func())

// route matches one method and path prefix
type route struct {
	method  string
	path    string
	handler handlerFunc
}

// routes is matched in order; more specific probe paths come before the
// setup pages, and anything unmatched falls through to the index page.
var routes = []route{
	{"GET", "/generate_204", handleNoContent},          // Android detection
	{"GET", "/connectivity-check", handleNoContent},    // Chrome OS detection
	{"GET", "/hotspot-detect.html", handleAppleProbe},  // macOS/iOS detection
	{"GET", "/success.conf", handleWindowsConnectTest}, // Windows detection
	{"GET", "/ncsi.conf", handleWindowsNCSI},           // Windows NCSI detection
	{"GET", "/scan", handleScan},
	{"POST", "/connect", handleConnect},
	{"POST", "/reconnect", handleReconnect},
}

// dispatch matches the request line against the route table.
// Anything unmatched is served the index page.
func (s *Server) dispatch(request string) (string, func()) {
	method, target := parseRequestLine(request)
	s.log.Debugf("%s %s", method, target)

	for _, r := range routes {
		if r.method == method && strings.HasPrefix(target, r.path) {
			return r.handler(s, request)
		}
	}
	return handleIndex(s, request)
}

// parseRequestLine extracts the method and target from the first line of
// a request. Malformed lines yield empty strings and fall through to the
// index page.
func parseRequestLine(request string) (method, target string) {
	line, _, _ := strings.Cut(request, "\r\n")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", ""
	}
	return fields[0], fields[1]
}
