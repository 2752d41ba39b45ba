// Package browserid authenticates HTTP requests carrying BrowserID
// (Mozilla Persona) email ownership assertions.
//
// A browser proves control of an email address by minting a signed
// assertion scoped to one audience, the origin of the site being
// signed into. The site never checks the signature itself; it submits
// the assertion together with its own audience to a verification
// service and trusts that service's answer:
//
//	POST /verify HTTP/1.1
//	Host: verifier.login.persona.org
//	Content-Type: application/x-www-form-urlencoded
//
//	assertion=<assertion>&audience=https%3A%2F%2Fexample.com
//
// The verifier answers with JSON: {"status":"okay","email":...} on
// success, {"status":"failure","reason":...} on rejection.
//
// # Usage
//
// Provide the audience and a resolver mapping verified emails to your
// application's users:
//
//	strategy, err := browserid.New(browserid.Config{
//	    Audience: "https://example.com",
//	}, func(ctx context.Context, email string) (any, auth.Info, error) {
//	    user, ok := users.ByEmail(email)
//	    if !ok {
//	        return nil, auth.Info{Message: "unknown user"}, nil
//	    }
//	    return user, auth.Info{}, nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The strategy reports exactly one outcome per attempt through
// auth.Callbacks; package authhttp turns outcomes into HTTP responses.
// Use NewWithRequest when the resolver needs the originating request.
//
// # Verifier client
//
// The same exchange is available directly through Client for tooling
// that verifies assertions outside a request cycle (see the
// persona-verify command):
//
//	client := browserid.NewClient(browserid.ClientConfig{})
//	res, err := client.Verify(ctx, assertion, "https://example.com")
//
// Substitute Transport (any http.RoundTripper) or VerifierURL to test
// against a stub; package browseridtest provides both.
//
// # Rejections use the Error channel
//
// A verifier rejection ({"status":"failure"}) is reported on the Error
// channel as a *VerificationError, not on the Fail channel. This
// mirrors the behavior relying parties have historically depended on,
// even though it conflates "this assertion is invalid" with "the
// verification system is misbehaving". Hosts that want to treat
// rejections as authentication failures can detect them:
//
//	var verr *browserid.VerificationError
//	if errors.As(err, &verr) {
//	    // rejected assertion, not a system fault
//	}
//
// # Audience checking
//
// Historically the audience echoed in the verifier's response was never
// compared against the deployment's own audience, so a verifier tricked
// into attesting for a different origin would be trusted. This package
// corrects that: when the response carries an audience field it must
// match Config.Audience after origin normalization (case, default
// ports, punycode), or the attempt ends in an *AudienceMismatchError.
// Responses without an audience field are not checked. Set
// Config.DisableAudienceCheck only to reproduce the historical
// behavior against a verifier you fully control.
package browserid
