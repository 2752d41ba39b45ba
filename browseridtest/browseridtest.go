package browseridtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/altbridge/persona/auth"
	"github.com/altbridge/persona/browserid"
)

// RoundTripFunc adapts a function to http.RoundTripper, for injecting
// transport behavior into a strategy or client without a server.
type RoundTripFunc func(r *http.Request) (*http.Response, error)

// RoundTrip calls f.
func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// VerifyRequest is one verification call as a Verifier received it.
type VerifyRequest struct {
	// Assertion and Audience are the decoded form fields.
	Assertion string
	Audience  string

	// Method is the HTTP method used.
	Method string

	// Header is a copy of the request headers.
	Header http.Header

	// Body is the raw request body, exactly as sent on the wire.
	Body string
}

// Verifier is an in-process verification service for tests. Responses
// are scripted per assertion or as a catch-all; every call is recorded
// for later assertions. Unscripted assertions fail the test.
type Verifier struct {
	t   testing.TB
	srv *httptest.Server

	mu       sync.Mutex
	scripted map[string]browserid.VerifyResponse
	catchAll *browserid.VerifyResponse
	raw      *rawResponse
	requests []VerifyRequest
}

type rawResponse struct {
	status int
	body   string
}

// NewVerifier starts a Verifier. It is shut down automatically when the
// test finishes.
func NewVerifier(t testing.TB) *Verifier {
	v := &Verifier{
		t:        t,
		scripted: make(map[string]browserid.VerifyResponse),
	}
	v.srv = httptest.NewServer(http.HandlerFunc(v.handle))
	t.Cleanup(v.Close)

	return v
}

// URL returns the verifier's base URL, for Config.VerifierURL.
func (v *Verifier) URL() string {
	return v.srv.URL
}

// Close shuts the verifier down.
func (v *Verifier) Close() {
	v.srv.Close()
}

// Respond scripts the response returned for one assertion value.
func (v *Verifier) Respond(assertion string, res browserid.VerifyResponse) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scripted[assertion] = res
}

// RespondAll scripts the response returned for any assertion that has
// no per-assertion script.
func (v *Verifier) RespondAll(res browserid.VerifyResponse) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.catchAll = &res
}

// RespondRaw makes the verifier answer every call with a verbatim
// status and body, bypassing JSON encoding. Use it to simulate broken
// verifiers: HTML error pages, truncated bodies, non-JSON output.
func (v *Verifier) RespondRaw(status int, body string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.raw = &rawResponse{status: status, body: body}
}

// Requests returns a copy of every verification call received so far.
func (v *Verifier) Requests() []VerifyRequest {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]VerifyRequest, len(v.requests))
	copy(out, v.requests)

	return out
}

func (v *Verifier) handle(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		v.t.Errorf("browseridtest: read verify request: %v", err)
		return
	}

	form, err := url.ParseQuery(string(raw))
	if err != nil {
		v.t.Errorf("browseridtest: parse verify request body %q: %v", raw, err)
		return
	}
	assertion := form.Get("assertion")

	v.mu.Lock()
	v.requests = append(v.requests, VerifyRequest{
		Assertion: assertion,
		Audience:  form.Get("audience"),
		Method:    r.Method,
		Header:    r.Header.Clone(),
		Body:      string(raw),
	})

	if v.raw != nil {
		status, body := v.raw.status, v.raw.body
		v.mu.Unlock()

		w.WriteHeader(status)
		io.WriteString(w, body)
		return
	}

	res, ok := v.scripted[assertion]
	if !ok && v.catchAll != nil {
		res, ok = *v.catchAll, true
	}
	v.mu.Unlock()

	if !ok {
		v.t.Errorf("browseridtest: no scripted response for assertion %q", assertion)
		res = browserid.VerifyResponse{Status: "failure", Reason: "unscripted assertion"}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		v.t.Errorf("browseridtest: encode verify response: %v", err)
	}
}

// Outcome values reported by a Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFail    = "fail"
	OutcomeError   = "error"
)

// Recorder captures the single outcome a strategy reports. A second
// outcome fails the test; an accessor called before any outcome returns
// zero values and Outcome returns "".
type Recorder struct {
	t testing.TB

	mu      sync.Mutex
	outcome string
	user    any
	info    auth.Info
	err     error
}

// NewRecorder creates a Recorder bound to t.
func NewRecorder(t testing.TB) *Recorder {
	return &Recorder{t: t}
}

// Callbacks returns the callback set to hand to Strategy.Authenticate.
func (rec *Recorder) Callbacks() auth.Callbacks {
	return auth.Callbacks{
		Success: func(user any, info auth.Info) {
			rec.record(OutcomeSuccess, user, info, nil)
		},
		Fail: func(info auth.Info) {
			rec.record(OutcomeFail, nil, info, nil)
		},
		Error: func(err error) {
			rec.record(OutcomeError, nil, auth.Info{}, err)
		},
	}
}

func (rec *Recorder) record(outcome string, user any, info auth.Info, err error) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.outcome != "" {
		rec.t.Errorf("browseridtest: outcome %q reported after %q", outcome, rec.outcome)
		return
	}

	rec.outcome = outcome
	rec.user = user
	rec.info = info
	rec.err = err
}

// Outcome returns which callback fired: OutcomeSuccess, OutcomeFail,
// OutcomeError, or "" when none has.
func (rec *Recorder) Outcome() string {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.outcome
}

// User returns the user a success delivered.
func (rec *Recorder) User() any {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.user
}

// Info returns the info a success or fail delivered.
func (rec *Recorder) Info() auth.Info {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.info
}

// Err returns the error an error outcome delivered.
func (rec *Recorder) Err() error {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.err
}

// Assertion fabricates an unsigned assertion bundle claiming email,
// scoped to audience, issued by issuer, and expiring at expires (zero
// for none). Its shape matches the wire format closely enough for
// browserid.Inspect and for scripting a Verifier; it carries no
// signatures and no real verifier would ever accept it.
func Assertion(email, audience, issuer string, expires time.Time) string {
	cert := jwt.MapClaims{
		"iss": issuer,
		"principal": map[string]any{
			"email": email,
		},
	}

	token := jwt.MapClaims{
		"aud": audience,
	}
	if !expires.IsZero() {
		token["exp"] = expires.UnixMilli()
	}

	return segment(cert) + "~" + segment(token)
}

// segment serializes one unsigned ("alg":"none") JWS compact segment.
func segment(claims jwt.MapClaims) string {
	s, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		panic("browseridtest: serialize segment: " + err.Error())
	}

	return s
}
