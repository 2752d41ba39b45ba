package browserid_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altbridge/persona/browserid"
)

// testSegment builds one unsigned JWS compact segment.
func testSegment(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "."
}

func TestInspect(t *testing.T) {
	t.Run("certificate chain bundle", func(t *testing.T) {
		expires := time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC)

		bundle := strings.Join([]string{
			testSegment(t, map[string]any{"iss": "login.example.com"}),
			testSegment(t, map[string]any{"iss": "intermediate.example.com"}),
			testSegment(t, map[string]any{
				"principal": map[string]any{"email": "jane@example.com"},
			}),
			testSegment(t, map[string]any{
				"aud": "http://example.com",
				"exp": expires.UnixMilli(),
			}),
		}, "~")

		info, err := browserid.Inspect(bundle)
		require.NoError(t, err)

		assert.Equal(t, "jane@example.com", info.Email)
		assert.Equal(t, "http://example.com", info.Audience)
		assert.Equal(t, "login.example.com", info.Issuer)
		assert.True(t, expires.Equal(info.ExpiresAt))
	})

	t.Run("bare assertion token", func(t *testing.T) {
		token := testSegment(t, map[string]any{"aud": "http://example.com"})

		info, err := browserid.Inspect(token)
		require.NoError(t, err)

		assert.Equal(t, "http://example.com", info.Audience)
		assert.Empty(t, info.Email)
		assert.Empty(t, info.Issuer)
		assert.True(t, info.ExpiresAt.IsZero())
	})

	t.Run("seconds expiry decodes too", func(t *testing.T) {
		token := testSegment(t, map[string]any{"exp": 1700000000})

		info, err := browserid.Inspect(token)
		require.NoError(t, err)
		assert.True(t, time.Unix(1700000000, 0).Equal(info.ExpiresAt))
	})

	t.Run("signature content is ignored", func(t *testing.T) {
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
		payload, err := json.Marshal(map[string]any{"aud": "http://example.com"})
		require.NoError(t, err)

		token := header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".c2lnbmF0dXJl"

		info, err := browserid.Inspect(token)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com", info.Audience)
	})

	t.Run("malformed input", func(t *testing.T) {
		tests := []struct {
			name      string
			assertion string
		}{
			{name: "empty", assertion: ""},
			{name: "whitespace", assertion: "   "},
			{name: "not a token", assertion: "definitely-not-a-token"},
			{name: "wrong segment count", assertion: "a.b"},
			{name: "garbage certificate", assertion: "junk~" + testSegment(t, map[string]any{"aud": "x"}) + "~" + testSegment(t, map[string]any{"aud": "x"})},
			{name: "garbage token", assertion: testSegment(t, map[string]any{"iss": "x"}) + "~junk"},
			{name: "header not base64", assertion: "!!!.e30."},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				info, err := browserid.Inspect(tt.assertion)
				assert.Nil(t, info)
				assert.ErrorIs(t, err, browserid.ErrMalformedAssertion)
			})
		}
	})
}
