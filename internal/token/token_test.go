package token

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_StampsCreatedWhenAbsent(t *testing.T) {
	before := time.Now()
	parsed, err := Parse([]byte(`{"access_token":"A21AAH","token_type":"Bearer","expires_in":32400}`))
	require.NoError(t, err)

	assert.Equal(t, "A21AAH", parsed.AccessToken)
	assert.Equal(t, int64(32400), parsed.ExpiresIn)
	assert.False(t, parsed.Created.Before(before))
	assert.True(t, parsed.IsValid())
}

func TestParse_KeepsProvidedCreated(t *testing.T) {
	created := time.Now().Add(-time.Hour).Unix()
	parsed, err := Parse(fmt.Appendf(nil, `{"access_token":"A21AAH","expires_in":7200,"created":%d}`, created))
	require.NoError(t, err)

	assert.Equal(t, created, parsed.Created.Unix())
	assert.True(t, parsed.IsValid())
}

func TestParse_AcceptsClientToken(t *testing.T) {
	parsed, err := Parse([]byte(`{"client_token":"CT123","expires_in":3600}`))
	require.NoError(t, err)
	assert.Equal(t, "CT123", parsed.AccessToken)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"expires_in":3600}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"access_token":"A21AAH"}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestIsValid_Expiry(t *testing.T) {
	now := time.Now()

	fresh := &Token{AccessToken: "x", ExpiresIn: 3600, Created: now}
	assert.True(t, fresh.IsValid())

	// Minted an hour and a second ago with a one hour lifetime.
	expired := &Token{AccessToken: "x", ExpiresIn: 3600, Created: now.Add(-3601 * time.Second)}
	assert.False(t, expired.IsValid())

	boundary := &Token{AccessToken: "x", ExpiresIn: 3600, Created: now.Add(-3600 * time.Second)}
	assert.False(t, boundary.isValidAt(boundary.ExpiresAt()))
}

func TestCapabilities_DerivedFromScope(t *testing.T) {
	full := &Token{
		AccessToken: "x",
		ExpiresIn:   3600,
		Created:     time.Now(),
		Scope: "https://uri.paypal.com/services/invoicing " +
			"https://uri.paypal.com/services/vault/payment-tokens/readwrite " +
			"https://uri.paypal.com/services/shipping/trackers/readwrite",
	}
	assert.True(t, full.VaultingAvailable())
	assert.True(t, full.TrackingAvailable())

	bare := &Token{
		AccessToken: "x",
		ExpiresIn:   3600,
		Created:     time.Now(),
		Scope:       "https://uri.paypal.com/services/invoicing",
	}
	assert.False(t, bare.VaultingAvailable())
	assert.False(t, bare.TrackingAvailable())
}
