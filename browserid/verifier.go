package browserid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultVerifierURL is the hosted verification endpoint assertions are
// submitted to when no override is configured.
const DefaultVerifierURL = "https://verifier.login.persona.org/verify"

// DefaultTimeout bounds the whole verification exchange when no timeout
// is configured. An unresponsive verifier must never hang a request
// indefinitely.
const DefaultTimeout = 10 * time.Second

// StatusOkay is the status value a verifier reports for an assertion it
// accepted. Every other value is a rejection.
const StatusOkay = "okay"

// VerifyResponse is the verifier's JSON reply to a verification call.
// On success Status is "okay" and Email carries the verified address;
// on rejection Reason explains why. Audience, Expires, and Issuer are
// echoed by conforming verifiers but are not guaranteed to be present.
type VerifyResponse struct {
	Status   string `json:"status"`
	Email    string `json:"email,omitempty"`
	Audience string `json:"audience,omitempty"`
	Expires  int64  `json:"expires,omitempty"`
	Issuer   string `json:"issuer,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Okay reports whether the verifier accepted the assertion.
func (r *VerifyResponse) Okay() bool {
	return r.Status == StatusOkay
}

// ExpiresAt returns the assertion expiry echoed by the verifier. The
// wire value is milliseconds since the Unix epoch; the zero time is
// returned when the verifier sent none.
func (r *VerifyResponse) ExpiresAt() time.Time {
	if r.Expires == 0 {
		return time.Time{}
	}

	return time.UnixMilli(r.Expires)
}

// ClientConfig configures a verification Client.
type ClientConfig struct {
	// VerifierURL is the verification endpoint. Defaults to
	// DefaultVerifierURL. Point it at a self-hosted verifier or a test
	// stub when needed.
	VerifierURL string

	// Transport performs the outbound HTTP exchange. When nil, a clone
	// of http.DefaultTransport is used, giving an independent
	// connection pool with default proxy and TLS settings. It must be
	// safe for concurrent use; one Client serves many concurrent
	// verification calls.
	Transport http.RoundTripper

	// Timeout bounds the whole exchange: connection, TLS handshake,
	// and reading the response body. Zero means DefaultTimeout; a
	// negative value disables the bound.
	Timeout time.Duration
}

// Client submits assertions to a verification service. A Client is
// immutable after construction and safe for concurrent use.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a Client, applying the ClientConfig defaults.
func NewClient(cfg ClientConfig) *Client {
	verifierURL := cfg.VerifierURL
	if verifierURL == "" {
		verifierURL = DefaultVerifierURL
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout < 0 {
		timeout = 0
	}

	return &Client{
		url: verifierURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Verify submits assertion, scoped to audience, for verification and
// returns the parsed response. The call is a single POST with an
// application/x-www-form-urlencoded body holding exactly the assertion
// and audience fields.
//
// A rejection is not an error: callers branch on VerifyResponse.Okay.
// Errors are reserved for faults: an unreachable verifier, a response
// body that cannot be read, or a body that is not valid JSON. The body
// is read in full before decoding, and it is decoded regardless of the
// HTTP status code, as conforming verifiers report rejections in the
// JSON body rather than the status line.
func (c *Client) Verify(ctx context.Context, assertion, audience string) (*VerifyResponse, error) {
	form := url.Values{}
	form.Set("assertion", assertion)
	form.Set("audience", audience)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("browserid: build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("browserid: verify call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("browserid: read verifier response: %w", err)
	}

	var vr VerifyResponse
	if err := json.Unmarshal(raw, &vr); err != nil {
		return nil, fmt.Errorf("browserid: decode verifier response: %w", err)
	}

	return &vr, nil
}
