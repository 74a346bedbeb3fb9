package muxhandlers

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/vitalvas/workopia/mux"
)

// ErrInvalidProxy is returned when a TrustedProxies entry is neither an IP
// address nor a CIDR prefix.
var ErrInvalidProxy = errors.New("proxy headers: invalid proxy entry")

// ErrNoTrustedProxies is returned when ProxyHeadersConfig.TrustedProxies is
// empty.
var ErrNoTrustedProxies = errors.New("proxy headers: at least one trusted proxy is required")

// ProxyHeadersConfig configures the Proxy Headers middleware behaviour.
type ProxyHeadersConfig struct {
	// TrustedProxies lists the addresses and CIDR prefixes of the reverse
	// proxies in front of the server, e.g. "10.0.0.0/8" or "127.0.0.1".
	TrustedProxies []string
}

type trustedProxies []netip.Prefix

func (t trustedProxies) contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range t {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ProxyHeadersMiddleware returns a middleware that restores the client
// address and scheme from proxy headers, but only for requests whose peer
// is a trusted proxy. r.RemoteAddr becomes the rightmost X-Forwarded-For
// entry that is not itself a trusted proxy, falling back to X-Real-IP, and
// r.URL.Scheme follows X-Forwarded-Proto when it is http or https.
//
// Downstream keys such as the login throttle then see the visitor, not the
// proxy.
//
// It returns ErrNoTrustedProxies for an empty list and ErrInvalidProxy for
// an unparseable entry.
func ProxyHeadersMiddleware(cfg ProxyHeadersConfig) (mux.MiddlewareFunc, error) {
	if len(cfg.TrustedProxies) == 0 {
		return nil, ErrNoTrustedProxies
	}

	trusted := make(trustedProxies, 0, len(cfg.TrustedProxies))
	for _, entry := range cfg.TrustedProxies {
		prefix, err := parseProxyEntry(entry)
		if err != nil {
			return nil, err
		}
		trusted = append(trusted, prefix)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer, ok := parseAddr(r.RemoteAddr)
			if !ok || !trusted.contains(peer) {
				next.ServeHTTP(w, r)
				return
			}

			if ip := forwardedClient(r.Header.Values("X-Forwarded-For"), trusted); ip != "" {
				r.RemoteAddr = ip
			} else if realIP, ok := parseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ok {
				r.RemoteAddr = realIP.String()
			}

			switch proto := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); proto {
			case "http", "https":
				u := *r.URL
				u.Scheme = proto
				r.URL = &u
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func parseProxyEntry(entry string) (netip.Prefix, error) {
	entry = strings.TrimSpace(entry)

	if strings.Contains(entry, "/") {
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
		}
		return prefix.Masked(), nil
	}

	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
	}
	addr = addr.Unmap()

	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// parseAddr accepts "ip" or "ip:port".
func parseAddr(s string) (netip.Addr, bool) {
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}

	return addr.Unmap(), true
}

// forwardedClient walks the X-Forwarded-For chain from the right and returns
// the first address that is not a trusted proxy. Entries left of it were
// written by the client and are ignored.
func forwardedClient(headers []string, trusted trustedProxies) string {
	var hops []string
	for _, h := range headers {
		hops = append(hops, strings.Split(h, ",")...)
	}

	for i := len(hops) - 1; i >= 0; i-- {
		addr, ok := parseAddr(strings.TrimSpace(hops[i]))
		if !ok {
			return ""
		}
		if !trusted.contains(addr) {
			return addr.String()
		}
	}

	return ""
}
