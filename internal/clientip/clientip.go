// Package clientip derives the caller's public IP address from an
// inbound HTTP request, honoring proxy-forwarding headers.
package clientip

import (
	"errors"
	"net"
	"net/netip"
	"strings"
)

// ErrInvalidAddress is returned when neither the forwarding header nor
// the connection peer address yields a syntactically valid IP.
var ErrInvalidAddress = errors.New("no valid client address in request")

// FromRequest produces exactly one client address for a request.
//
// forwardedFor is the X-Forwarded-For header value, possibly empty,
// possibly a comma-separated proxy chain ordered from the original
// client to the nearest proxy. The first valid address in the chain
// wins; when the header yields nothing, the connection peer address
// (remoteAddr, with or without a port) is used instead.
//
// The result is in canonical form: parse anomalies such as leading
// zeros or 4-in-6 mappings never produce two spellings of one address.
func FromRequest(forwardedFor, remoteAddr string) (string, error) {
	for _, part := range strings.Split(forwardedFor, ",") {
		if addr, err := netip.ParseAddr(strings.TrimSpace(part)); err == nil {
			return canonical(addr), nil
		}
	}

	peer := remoteAddr
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		peer = host
	}
	if addr, err := netip.ParseAddr(peer); err == nil {
		return canonical(addr), nil
	}

	return "", ErrInvalidAddress
}

func canonical(addr netip.Addr) string {
	return addr.Unmap().String()
}
