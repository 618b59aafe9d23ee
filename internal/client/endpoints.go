package client

import (
	"fmt"
	"net/http"
)

// SessionCookieName is the cookie the admin API issues at logon and expects
// replayed on every authenticated call.
const SessionCookieName = "ESAdmin-Cookie"

// BaseURL returns the admin API root for a host/port pair.
func BaseURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

// activePCTURL builds the region counter endpoint. The host appears both as
// the authority and inside the path; the 86 path element is part of the
// upstream API shape, not the TCP port.
func activePCTURL(host string, port int, region string) string {
	return fmt.Sprintf("%s/native/v1/regions/%s/86/%s/active/pct", BaseURL(host, port), host, region)
}

// SetAdminHeaders applies the header set the admin API expects on every
// call. Shared with the authenticator, which speaks to the same server.
func SetAdminHeaders(h http.Header, host string, port int) {
	h.Set("Content-Type", "application/json")
	h.Set("Origin", BaseURL(host, port))
	h.Set("X-Requested-With", "XMLHttpRequest")
}
