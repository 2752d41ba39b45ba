// Package auth defines the contract between authentication strategies and
// the HTTP hosts that drive them.
//
// A Strategy examines a single inbound request and reports exactly one
// outcome through the Callbacks it is handed: Success with the resolved
// application user, Fail when the credentials are absent or rejected, or
// Error when authentication could not be decided because something broke.
// Strategies never write to the response themselves; translating outcomes
// into HTTP responses is the host's job (see package authhttp).
//
// Hosts depend on the Strategy interface, never on concrete strategy
// types, so new authentication mechanisms plug in without host changes:
//
//	strategy, err := browserid.New(browserid.Config{
//	    Audience: "https://example.com",
//	}, resolve)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	handler, err := authhttp.LoginHandler(strategy, authhttp.LoginConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.Handle("/auth/browserid", handler)
//
// The Fail channel means "this request is not authenticated" (missing or
// rejected credentials); the Error channel means "authentication could not
// be performed" (verifier unreachable, malformed upstream response,
// application resolver failure). Hosts typically map Fail to 4xx and Error
// to 5xx.
package auth
