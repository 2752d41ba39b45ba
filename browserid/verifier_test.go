package browserid_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altbridge/persona/browserid"
	"github.com/altbridge/persona/browseridtest"
)

func TestClientVerify(t *testing.T) {
	t.Run("okay response", func(t *testing.T) {
		expires := time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC)

		verifier := browseridtest.NewVerifier(t)
		verifier.Respond("abc", browserid.VerifyResponse{
			Status:   browserid.StatusOkay,
			Email:    "jane@example.com",
			Audience: "http://example.com",
			Expires:  expires.UnixMilli(),
			Issuer:   "login.persona.org",
		})

		client := browserid.NewClient(browserid.ClientConfig{VerifierURL: verifier.URL()})

		res, err := client.Verify(context.Background(), "abc", "http://example.com")
		require.NoError(t, err)

		assert.True(t, res.Okay())
		assert.Equal(t, "jane@example.com", res.Email)
		assert.Equal(t, "http://example.com", res.Audience)
		assert.Equal(t, "login.persona.org", res.Issuer)
		assert.True(t, expires.Equal(res.ExpiresAt()))
	})

	t.Run("rejection is not an error", func(t *testing.T) {
		verifier := browseridtest.NewVerifier(t)
		verifier.RespondAll(browserid.VerifyResponse{
			Status: "failure",
			Reason: "assertion has expired",
		})

		client := browserid.NewClient(browserid.ClientConfig{VerifierURL: verifier.URL()})

		res, err := client.Verify(context.Background(), "abc", "http://example.com")
		require.NoError(t, err)

		assert.False(t, res.Okay())
		assert.Equal(t, "assertion has expired", res.Reason)
	})

	t.Run("sends exactly assertion and audience as a form", func(t *testing.T) {
		verifier := browseridtest.NewVerifier(t)
		verifier.RespondAll(browserid.VerifyResponse{Status: browserid.StatusOkay})

		client := browserid.NewClient(browserid.ClientConfig{VerifierURL: verifier.URL()})

		_, err := client.Verify(context.Background(), "abc", "http://example.com")
		require.NoError(t, err)

		reqs := verifier.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodPost, reqs[0].Method)
		assert.Equal(t, "application/x-www-form-urlencoded", reqs[0].Header.Get("Content-Type"))
		assert.Equal(t, "assertion=abc&audience=http%3A%2F%2Fexample.com", reqs[0].Body)
	})

	t.Run("body decoded regardless of http status", func(t *testing.T) {
		verifier := browseridtest.NewVerifier(t)
		verifier.RespondRaw(http.StatusServiceUnavailable,
			`{"status":"failure","reason":"service unavailable"}`)

		client := browserid.NewClient(browserid.ClientConfig{VerifierURL: verifier.URL()})

		res, err := client.Verify(context.Background(), "abc", "http://example.com")
		require.NoError(t, err)

		assert.False(t, res.Okay())
		assert.Equal(t, "service unavailable", res.Reason)
	})

	t.Run("non-json body is an error", func(t *testing.T) {
		verifier := browseridtest.NewVerifier(t)
		verifier.RespondRaw(http.StatusOK, "<html>it broke</html>")

		client := browserid.NewClient(browserid.ClientConfig{VerifierURL: verifier.URL()})

		res, err := client.Verify(context.Background(), "abc", "http://example.com")
		assert.Nil(t, res)
		assert.ErrorContains(t, err, "decode verifier response")
	})

	t.Run("empty body is an error", func(t *testing.T) {
		verifier := browseridtest.NewVerifier(t)
		verifier.RespondRaw(http.StatusOK, "")

		client := browserid.NewClient(browserid.ClientConfig{VerifierURL: verifier.URL()})

		_, err := client.Verify(context.Background(), "abc", "http://example.com")
		assert.Error(t, err)
	})

	t.Run("transport failure preserved", func(t *testing.T) {
		boom := errors.New("connection refused")

		client := browserid.NewClient(browserid.ClientConfig{
			Transport: browseridtest.RoundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, boom
			}),
		})

		res, err := client.Verify(context.Background(), "abc", "http://example.com")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("timeout bounds the exchange", func(t *testing.T) {
		client := browserid.NewClient(browserid.ClientConfig{
			Timeout: 5 * time.Millisecond,
			Transport: browseridtest.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
				<-r.Context().Done()
				return nil, r.Context().Err()
			}),
		})

		_, err := client.Verify(context.Background(), "abc", "http://example.com")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("context cancellation preserved", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		verifier := browseridtest.NewVerifier(t)
		verifier.RespondAll(browserid.VerifyResponse{Status: browserid.StatusOkay})

		client := browserid.NewClient(browserid.ClientConfig{VerifierURL: verifier.URL()})

		_, err := client.Verify(ctx, "abc", "http://example.com")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
