package portal

// Raw response fragments. Only the status line and Content-Type are set;
// probe clients match on the exact bodies below.
const (
	responseNoContent = "HTTP/1.1 204 No Content\r\n\r\n"
	headerHTML        = "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n"
	headerPlainText   = "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\n"
)

func handleNoContent(s *Server, request string) (string, func()) {
	return responseNoContent, nil
}

func handleAppleProbe(s *Server, request string) (string, func()) {
	return headerHTML + "<HTML><BODY><H1>Success</H1></BODY></HTML>", nil
}

func handleWindowsConnectTest(s *Server, request string) (string, func()) {
	return headerPlainText + "Microsoft Connect Test", nil
}

func handleWindowsNCSI(s *Server, request string) (string, func()) {
	return headerPlainText + "Microsoft NCSI", nil
}

// handleIndex serves the portal landing page
func handleIndex(s *Server, request string) (string, func()) {
	page := s.templates.RenderIndex(IndexData{
		HasSaved: s.controller.HasSavedNetwork(),
	})
	return headerHTML + page, nil
}

// handleScan lists reachable networks, each rendered as a connect form.
// A scan failure still renders the page shell with an inline error.
func handleScan(s *Server, request string) (string, func()) {
	data := ScanData{}

	networks, err := s.controller.Scan()
	if err != nil {
		s.log.Warnf("network scan failed: %v", err)
		data.ScanError = err.Error()
	} else {
		data.Networks = networks
	}

	return headerHTML + s.templates.RenderScan(data), nil
}

// handleConnect joins the network named in the form body. On success the
// fallback services are torn down after the response is delivered.
func handleConnect(s *Server, request string) (string, func()) {
	params := decodeForm(request)
	ssid := params["ssid"]
	password := params["password"]

	if ssid == "" || password == "" {
		page := s.templates.RenderResult(ResultData{
			Heading: "Connection Error",
			Message: "The SSID or password for the wi-fi network was not provided.",
		})
		return headerHTML + page, nil
	}

	if err := s.controller.Connect(ssid, password); err != nil {
		s.log.Infof("connection to %q failed: %v", ssid, err)
		page := s.templates.RenderResult(ResultData{
			Heading: "Connection Failed",
			Message: "Failed to connect to " + ssid + ".",
		})
		return headerHTML + page, nil
	}

	page := s.templates.RenderResult(ResultData{
		Heading: "Connected",
		Message: "You successfully connected to " + ssid + ".",
		Detail:  "The access point has been shut down and you can now close this page.",
	})
	return headerHTML + page, s.controller.CompleteFallback
}

// handleReconnect replays the saved credentials
func handleReconnect(s *Server, request string) (string, func()) {
	if !s.controller.HasSavedNetwork() {
		page := s.templates.RenderResult(ResultData{
			Heading: "Configuration Error",
			Message: "There was an error locating your network configuration.",
			Detail:  "Please try manually reconnecting to the network.",
		})
		return headerHTML + page, nil
	}

	if err := s.controller.Reconnect(); err != nil {
		s.log.Infof("reconnection failed: %v", err)
		page := s.templates.RenderResult(ResultData{
			Heading: "Reconnection Failed",
			Message: "Failed to reconnect to your saved network.",
		})
		return headerHTML + page, nil
	}

	page := s.templates.RenderResult(ResultData{
		Heading: "Reconnected",
		Message: "You successfully reconnected to your saved network.",
		Detail:  "The access point has been shut down and you can now close this page.",
	})
	return headerHTML + page, s.controller.CompleteFallback
}
