package browserid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		want    string
		wantErr bool
	}{
		{
			name:   "already canonical",
			origin: "http://example.com",
			want:   "http://example.com",
		},
		{
			name:   "uppercase scheme and host",
			origin: "HTTP://Example.COM",
			want:   "http://example.com",
		},
		{
			name:   "default http port elided",
			origin: "http://example.com:80",
			want:   "http://example.com",
		},
		{
			name:   "default https port elided",
			origin: "https://example.com:443",
			want:   "https://example.com",
		},
		{
			name:   "default wss port elided",
			origin: "wss://example.com:443",
			want:   "wss://example.com",
		},
		{
			name:   "https on port 80 kept",
			origin: "https://example.com:80",
			want:   "https://example.com:80",
		},
		{
			name:   "non-default port kept",
			origin: "http://example.com:8080",
			want:   "http://example.com:8080",
		},
		{
			name:   "trailing slash accepted",
			origin: "http://example.com/",
			want:   "http://example.com",
		},
		{
			name:   "surrounding whitespace trimmed",
			origin: "  http://example.com  ",
			want:   "http://example.com",
		},
		{
			name:   "internationalized host to punycode",
			origin: "https://münchen.example",
			want:   "https://xn--mnchen-3ya.example",
		},
		{
			name:    "empty",
			origin:  "",
			wantErr: true,
		},
		{
			name:    "missing scheme",
			origin:  "example.com",
			wantErr: true,
		},
		{
			name:    "path not allowed",
			origin:  "http://example.com/login",
			wantErr: true,
		},
		{
			name:    "query not allowed",
			origin:  "http://example.com?next=/home",
			wantErr: true,
		},
		{
			name:    "fragment not allowed",
			origin:  "http://example.com#top",
			wantErr: true,
		},
		{
			name:    "user info not allowed",
			origin:  "http://admin@example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeOrigin(tt.origin)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchAudience(t *testing.T) {
	t.Run("equivalent origins match", func(t *testing.T) {
		tests := []struct {
			configured string
			claimed    string
		}{
			{"http://example.com", "http://example.com"},
			{"http://example.com", "HTTP://Example.com:80"},
			{"https://example.com:443", "https://example.com"},
			{"http://example.com:8080", "http://EXAMPLE.com:8080"},
		}

		for _, tt := range tests {
			assert.NoError(t, MatchAudience(tt.configured, tt.claimed),
				"%q should match %q", tt.configured, tt.claimed)
		}
	})

	t.Run("different origins mismatch", func(t *testing.T) {
		tests := []struct {
			configured string
			claimed    string
		}{
			{"http://example.com", "http://evil.example"},
			{"http://example.com", "https://example.com"},
			{"http://example.com", "http://example.com:8080"},
			{"http://example.com", "http://sub.example.com"},
		}

		for _, tt := range tests {
			err := MatchAudience(tt.configured, tt.claimed)
			require.Error(t, err, "%q should not match %q", tt.configured, tt.claimed)

			var mismatch *AudienceMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.NotEqual(t, mismatch.Want, mismatch.Got)
		}
	})

	t.Run("mismatch carries normalized origins", func(t *testing.T) {
		err := MatchAudience("HTTP://Example.com:80", "HTTPS://Evil.example:443")
		require.Error(t, err)

		var mismatch *AudienceMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "http://example.com", mismatch.Want)
		assert.Equal(t, "https://evil.example", mismatch.Got)
	})

	t.Run("invalid configured origin", func(t *testing.T) {
		err := MatchAudience("not an origin", "http://example.com")
		require.Error(t, err)

		var mismatch *AudienceMismatchError
		assert.False(t, errors.As(err, &mismatch))
	})
}
