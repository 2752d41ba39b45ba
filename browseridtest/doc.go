// Package browseridtest provides helpers for testing code built on the
// browserid package without a real verification service: a scriptable
// in-process verifier, a callback recorder, and an assertion
// fabricator.
//
// A typical strategy test wires all three together:
//
//	verifier := browseridtest.NewVerifier(t)
//	verifier.RespondAll(browserid.VerifyResponse{
//		Status: browserid.StatusOkay,
//		Email:  "jane@example.com",
//	})
//
//	strategy, err := browserid.New(browserid.Config{
//		Audience:    "http://example.com",
//		VerifierURL: verifier.URL(),
//	}, resolve)
//	require.NoError(t, err)
//
//	rec := browseridtest.NewRecorder(t)
//	strategy.Authenticate(req, rec.Callbacks())
//
//	assert.Equal(t, browseridtest.OutcomeSuccess, rec.Outcome())
//
// The fabricated assertions carry no signatures. They decode under
// browserid.Inspect and satisfy stub verifiers, and nothing more.
package browseridtest
