package browserid

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AssertionInfo is the content an assertion claims about itself,
// decoded without any signature verification. None of it is
// trustworthy; only the verifier can vouch for an assertion.
type AssertionInfo struct {
	// Email is the address the leaf certificate claims ownership of.
	// Empty when the assertion carries no certificate chain.
	Email string

	// Audience is the origin the assertion claims to be scoped to.
	Audience string

	// ExpiresAt is the claimed expiry. The zero time means the
	// assertion carries none.
	ExpiresAt time.Time

	// Issuer is the identity provider the certificate chain claims to
	// start from. Empty when the assertion carries no certificates.
	Issuer string
}

// Inspect decodes the claims a backed identity assertion makes about
// itself: the email from the leaf certificate's principal, the audience
// and expiry from the trailing assertion token, and the issuer from the
// root certificate. An assertion is a "~"-joined bundle whose leading
// segments are certificates and whose last segment is the assertion
// token, each in JWS compact form.
//
// Inspect performs no signature verification and no network I/O, and
// the authentication flow never consults it; it exists for diagnostics
// (debug logging, the persona-verify inspect command). Treat every
// field of the result as attacker-controlled.
func Inspect(assertion string) (*AssertionInfo, error) {
	if strings.TrimSpace(assertion) == "" {
		return nil, ErrMalformedAssertion
	}

	segments := strings.Split(assertion, "~")
	parser := jwt.NewParser()

	tail, err := decodeSegment(parser, segments[len(segments)-1])
	if err != nil {
		return nil, err
	}

	info := &AssertionInfo{}
	if aud, ok := tail["aud"].(string); ok {
		info.Audience = aud
	}
	info.ExpiresAt = claimTime(tail["exp"])

	if len(segments) > 1 {
		leaf, err := decodeSegment(parser, segments[len(segments)-2])
		if err != nil {
			return nil, err
		}
		if principal, ok := leaf["principal"].(map[string]any); ok {
			if email, ok := principal["email"].(string); ok {
				info.Email = email
			}
		}

		root, err := decodeSegment(parser, segments[0])
		if err != nil {
			return nil, err
		}
		if iss, ok := root["iss"].(string); ok {
			info.Issuer = iss
		}
	}

	return info, nil
}

// decodeSegment parses one JWS compact segment without verifying its
// signature and returns the raw claim set.
func decodeSegment(parser *jwt.Parser, segment string) (jwt.MapClaims, error) {
	token, _, err := parser.ParseUnverified(segment, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAssertion, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedAssertion
	}

	return claims, nil
}

// claimTime converts a numeric claim to a time. The protocol stamps
// tokens in milliseconds since the Unix epoch rather than the seconds
// standard JWTs use; values far beyond any plausible seconds clock are
// read as milliseconds so both forms decode sensibly.
func claimTime(v any) time.Time {
	f, ok := v.(float64)
	if !ok || f == 0 {
		return time.Time{}
	}

	if f > 1e11 {
		return time.UnixMilli(int64(f))
	}

	return time.Unix(int64(f), 0)
}
