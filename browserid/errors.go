package browserid

import (
	"errors"
	"fmt"
)

// Construction errors.
var (
	// ErrMissingAudience is returned when Config.Audience is empty.
	// The audience scopes every assertion to one origin; there is no
	// usable default.
	ErrMissingAudience = errors.New("browserid: audience must not be empty")

	// ErrNoResolver is returned when New or NewWithRequest is called
	// without a resolver callback.
	ErrNoResolver = errors.New("browserid: resolver must not be nil")
)

// Assertion inspection errors.
var (
	// ErrMalformedAssertion is returned by Inspect when the assertion
	// is not a decodable bundle of token segments.
	ErrMalformedAssertion = errors.New("browserid: malformed assertion")
)

// VerificationError reports that the remote verifier explicitly
// rejected the assertion. Error returns the verifier's reason field
// verbatim, so the text seen by callers is the text the verifier sent.
type VerificationError struct {
	// Reason is the failure reason reported by the verifier. It may be
	// empty when the verifier sent none.
	Reason string
}

func (e *VerificationError) Error() string { return e.Reason }

// AudienceMismatchError reports that the verifier attested the
// assertion for a different audience than this deployment is
// configured to serve. Both fields hold normalized origins.
type AudienceMismatchError struct {
	Want string
	Got  string
}

func (e *AudienceMismatchError) Error() string {
	return fmt.Sprintf("browserid: audience mismatch: verifier attested %q, expected %q", e.Got, e.Want)
}
