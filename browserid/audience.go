package browserid

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeOrigin canonicalizes a web origin (scheme://host[:port]) for
// comparison: scheme and host are lowercased, the host is converted to
// its IDNA (punycode) form, and the default port for the scheme is
// elided. Origins carrying a path, query, fragment, or user info are
// rejected, as is anything without both a scheme and a host.
func NormalizeOrigin(origin string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return "", fmt.Errorf("browserid: parse origin %q: %w", origin, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("browserid: origin %q must have the form scheme://host[:port]", origin)
	}

	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", fmt.Errorf("browserid: origin %q must not carry a path, query, fragment, or user info", origin)
	}

	scheme := strings.ToLower(u.Scheme)

	host := strings.ToLower(u.Hostname())
	// Non-ASCII hosts are compared in punycode form; hosts the IDNA
	// mapping rejects are compared as lowercased input.
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}

	port := u.Port()
	if port == defaultPort(scheme) {
		port = ""
	}

	if port != "" {
		return scheme + "://" + host + ":" + port, nil
	}

	return scheme + "://" + host, nil
}

// MatchAudience compares the audience this deployment is configured to
// serve against the audience a verifier response claims the assertion
// was scoped to. Origins are normalized before comparison, so
// "HTTP://Example.com:80" and "http://example.com" match. It returns
// nil when the origins are the same and an *AudienceMismatchError when
// they differ.
func MatchAudience(configured, claimed string) error {
	want, err := NormalizeOrigin(configured)
	if err != nil {
		return err
	}

	got, err := NormalizeOrigin(claimed)
	if err != nil {
		return err
	}

	if want != got {
		return &AudienceMismatchError{Want: want, Got: got}
	}

	return nil
}

// defaultPort returns the port implied by scheme, or an empty string
// when the scheme has none.
func defaultPort(scheme string) string {
	switch scheme {
	case "http", "ws":
		return "80"
	case "https", "wss":
		return "443"
	}

	return ""
}
