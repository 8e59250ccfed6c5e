package config

import (
	"net"
	"net/netip"
	"strings"
)

// ResolveBaseURL picks devURL when host is a local development host
// (localhost, loopback or private-network address) and prodURL otherwise.
// host may carry a port.
func ResolveBaseURL(host, devURL, prodURL string) string {
	if IsDevHost(host) {
		return devURL
	}
	return prodURL
}

// IsDevHost reports whether host is localhost, a loopback address or a
// private-network address.
func IsDevHost(host string) bool {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return true
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate()
}
