package browserid

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/altbridge/persona/auth"
)

// DefaultAssertionField is the request-body field read when
// Config.AssertionField is empty.
const DefaultAssertionField = "assertion"

// Config configures a Strategy. Audience is required; every other
// field has a working default.
type Config struct {
	// Audience is the origin (scheme://host[:port]) this deployment
	// serves. An assertion is only valid for the audience it was
	// minted for, so the value must match what browsers see in their
	// address bar. Required.
	Audience string

	// AssertionField is the request-body field holding the assertion.
	// Defaults to DefaultAssertionField.
	AssertionField string

	// VerifierURL overrides the verification endpoint, e.g. to point
	// at a self-hosted verifier or a test stub. Defaults to
	// DefaultVerifierURL.
	VerifierURL string

	// Transport performs the outbound verification call. When nil, a
	// clone of http.DefaultTransport is used. It must be safe for
	// concurrent use; one Strategy serves many concurrent requests.
	Transport http.RoundTripper

	// Timeout bounds the verification exchange. Zero means
	// DefaultTimeout; a negative value disables the bound. Expiry
	// surfaces on the Error channel.
	Timeout time.Duration

	// DisableAudienceCheck accepts verifier responses without
	// comparing the audience they echo against Audience. The check is
	// on by default and only applies when the response carries an
	// audience field; see the package documentation for why you almost
	// never want to disable it.
	DisableAudienceCheck bool

	// Logger receives debug records for each attempt. Defaults to
	// slog.Default(). Nothing above debug level is ever written.
	Logger *slog.Logger
}

// ResolveFunc maps a verified email address to an application user.
// It is the only hook the embedding application must provide.
//
// Returning a non-nil error reports a fault on the Error channel.
// Returning a nil user (with a nil error) fails the attempt, with info
// explaining why. Otherwise the attempt succeeds with exactly the
// returned user and info.
type ResolveFunc func(ctx context.Context, email string) (user any, info auth.Info, err error)

// ResolveRequestFunc is a resolver that additionally receives the
// request being authenticated, for applications whose user lookup
// depends on request state (tenant headers, connection details).
// Construct the strategy with NewWithRequest to use it.
type ResolveRequestFunc func(r *http.Request, email string) (user any, info auth.Info, err error)

// Strategy authenticates requests carrying email ownership assertions
// by submitting them to a remote verification service. It implements
// auth.Strategy. A Strategy is immutable after construction and safe
// for concurrent use; it holds no per-request state.
type Strategy struct {
	audience       string
	assertionField string
	checkAudience  bool
	client         *Client
	logger         *slog.Logger
	resolve        ResolveRequestFunc
}

// New creates a Strategy whose resolver receives the verified email and
// the request context. It returns ErrMissingAudience when cfg.Audience
// is empty and ErrNoResolver when resolve is nil.
func New(cfg Config, resolve ResolveFunc) (*Strategy, error) {
	if resolve == nil {
		return nil, ErrNoResolver
	}

	return newStrategy(cfg, func(r *http.Request, email string) (any, auth.Info, error) {
		return resolve(r.Context(), email)
	})
}

// NewWithRequest creates a Strategy whose resolver additionally
// receives the originating request. The construction contract is the
// same as New's.
func NewWithRequest(cfg Config, resolve ResolveRequestFunc) (*Strategy, error) {
	if resolve == nil {
		return nil, ErrNoResolver
	}

	return newStrategy(cfg, resolve)
}

func newStrategy(cfg Config, resolve ResolveRequestFunc) (*Strategy, error) {
	if cfg.Audience == "" {
		return nil, ErrMissingAudience
	}

	assertionField := cfg.AssertionField
	if assertionField == "" {
		assertionField = DefaultAssertionField
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Strategy{
		audience:       cfg.Audience,
		assertionField: assertionField,
		checkAudience:  !cfg.DisableAudienceCheck,
		client: NewClient(ClientConfig{
			VerifierURL: cfg.VerifierURL,
			Transport:   cfg.Transport,
			Timeout:     cfg.Timeout,
		}),
		logger:  logger,
		resolve: resolve,
	}, nil
}

// Name returns "browserid".
func (s *Strategy) Name() string {
	return "browserid"
}

// Authenticate reads the assertion from the request body and drives it
// to exactly one outcome:
//
//   - no assertion field (or no body at all): Fail with a 400-class
//     Info, without any network call;
//   - verifier unreachable, response unreadable or not JSON: Error with
//     the cause preserved;
//   - verifier rejected the assertion: Error with a *VerificationError
//     whose message is the verifier's reason (see the package
//     documentation for why rejections use the Error channel);
//   - verifier attested a different audience: Error with an
//     *AudienceMismatchError (unless the check is disabled);
//   - resolver error: Error; resolver returned no user: Fail with the
//     resolver's info; otherwise: Success with the resolver's user and
//     info.
//
// The request body is expected as a string-keyed form; hosts accepting
// JSON bodies materialize them into the form first (see authhttp).
func (s *Strategy) Authenticate(r *http.Request, cb auth.Callbacks) {
	ctx := r.Context()

	assertion := r.PostFormValue(s.assertionField)
	if assertion == "" {
		cb.Fail(auth.Info{Message: "missing assertion", Status: http.StatusBadRequest})
		return
	}

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		s.logClaims(ctx, assertion)
	}

	res, err := s.client.Verify(ctx, assertion, s.audience)
	if err != nil {
		cb.Error(err)
		return
	}

	if !res.Okay() {
		s.logger.DebugContext(ctx, "browserid: verifier rejected assertion",
			slog.String("status", res.Status),
			slog.String("reason", res.Reason))
		cb.Error(&VerificationError{Reason: res.Reason})
		return
	}

	if s.checkAudience && res.Audience != "" {
		if err := MatchAudience(s.audience, res.Audience); err != nil {
			cb.Error(err)
			return
		}
	}

	s.logger.DebugContext(ctx, "browserid: assertion verified",
		slog.String("email", res.Email),
		slog.String("issuer", res.Issuer))

	user, info, err := s.resolve(r, res.Email)
	if err != nil {
		cb.Error(err)
		return
	}

	if user == nil {
		cb.Fail(info)
		return
	}

	cb.Success(user, info)
}

// logClaims records what the assertion claims about itself before the
// verifier has seen it. Purely diagnostic; decoding failures are
// ignored and nothing here influences the outcome.
func (s *Strategy) logClaims(ctx context.Context, assertion string) {
	claims, err := Inspect(assertion)
	if err != nil {
		return
	}

	s.logger.DebugContext(ctx, "browserid: verifying assertion",
		slog.String("claimed_email", claims.Email),
		slog.String("claimed_audience", claims.Audience),
		slog.Time("claimed_expiry", claims.ExpiresAt))
}
