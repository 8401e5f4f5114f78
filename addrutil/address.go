package addrutil

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"

	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/ruteri/getipfs/interfaces"
)

// DefaultAPIPort is the port the IPFS HTTP API listens on by default.
const DefaultAPIPort = "5001"

// IsMultiaddr reports whether addr parses as a multiaddr.
func IsMultiaddr(addr string) bool {
	if addr == "" {
		return false
	}
	_, err := ma.NewMultiaddr(addr)
	return err == nil
}

// CheckAPIAddress returns ErrInvalidAPIAddress if addr is set but is not a valid multiaddr.
func CheckAPIAddress(addr string) error {
	if addr == "" {
		return nil
	}
	if _, err := ma.NewMultiaddr(addr); err != nil {
		return fmt.Errorf("%w %q: %v", interfaces.ErrInvalidAPIAddress, addr, err)
	}
	return nil
}

// ValidateAPIAddress returns addr unchanged when it is a valid multiaddr.
// An invalid address is reported with a single warning and replaced by the
// empty string so callers fall back to the default address.
func ValidateAPIAddress(addr string, log *slog.Logger) string {
	if addr == "" {
		return ""
	}
	if !IsMultiaddr(addr) {
		if log == nil {
			log = slog.Default()
		}
		log.Warn("The IPFS API address is invalid", slog.String("address", addr))
		return ""
	}
	return addr
}

// IsDefaultAPILocation reports whether u points at the local default API origin.
func IsDefaultAPILocation(u *url.URL) bool {
	if u == nil {
		return false
	}
	host := u.Hostname()
	return u.Port() == DefaultAPIPort && (host == "127.0.0.1" || host == "localhost")
}

// LocationToMultiaddr converts an http(s) location into a multiaddr such as
// /dns4/example.com/tcp/443/https.
func LocationToMultiaddr(u *url.URL) (ma.Multiaddr, error) {
	if u == nil {
		return nil, fmt.Errorf("no location")
	}

	scheme := strings.ToLower(u.Scheme)
	port := u.Port()
	switch scheme {
	case "http":
		if port == "" {
			port = "80"
		}
	case "https":
		if port == "" {
			port = "443"
		}
	default:
		return nil, fmt.Errorf("unsupported location scheme: %s", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("location has no host: %s", u.String())
	}

	var hostPart string
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			hostPart = "/ip4/" + ip.String()
		} else {
			hostPart = "/ip6/" + ip.String()
		}
	} else {
		hostPart = "/dns4/" + host
	}

	return ma.NewMultiaddr(fmt.Sprintf("%s/tcp/%s/%s", hostPart, port, scheme))
}

// ToURL converts an API address into an http(s) base URL.
// Multiaddrs are converted through their dial arguments; http(s) URLs pass through.
func ToURL(addr string) (string, error) {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimSuffix(addr, "/"), nil
	}

	m, err := ma.NewMultiaddr(addr)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", interfaces.ErrInvalidAPIAddress, addr, err)
	}

	scheme := "http"
	var dialParts []ma.Multiaddr
	for _, part := range ma.Split(m) {
		switch part.Protocols()[0].Code {
		case ma.P_HTTPS, ma.P_TLS:
			scheme = "https"
		case ma.P_HTTP:
		default:
			dialParts = append(dialParts, part)
		}
	}

	_, host, err := manet.DialArgs(ma.Join(dialParts...))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", interfaces.ErrInvalidAPIAddress, addr, err)
	}

	return scheme + "://" + host, nil
}
