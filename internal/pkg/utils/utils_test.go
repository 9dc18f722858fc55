package utils

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name         string
		count, total int
		want         float64
	}{
		{"three quarters", 15, 20, 75},
		{"repeating", 1, 3, 33.33},
		{"half up", 2, 3, 66.67},
		{"exact half cent", 1, 8, 12.5},
		{"rounds up at five", 1, 16, 6.25},
		{"all", 7, 7, 100},
		{"zero total", 3, 0, 0},
		{"negative total", 3, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.count, tt.total))
		})
	}
}

func TestShareIsStableAgainstHundred(t *testing.T) {
	for _, v := range []float64{12.34, 0.01, 33.33, 66.67, 100} {
		assert.Equal(t, v, Share(v, 100))
	}
	assert.Equal(t, 0.0, Share(5, 0))
}

func TestAuthTokenRoundTrip(t *testing.T) {
	token, err := GenerateAuthToken(&AuthTokenWrapper{Secret: "s3cret"}, "signing", time.Hour)
	require.NoError(t, err)

	parsed, err := ParseAuthToken(token, "signing")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", parsed.Secret)

	_, err = ParseAuthToken(token, "other")
	assert.Error(t, err)
}

func TestAuthTokenExpired(t *testing.T) {
	w := &AuthTokenWrapper{Secret: "s3cret"}
	w.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	token, err := GenerateAuthToken(w, "signing", 0)
	require.NoError(t, err)

	_, err = ParseAuthToken(token, "signing")
	assert.Error(t, err)
}
