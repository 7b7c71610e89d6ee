// Package token models the bearer credential minted from the PayPal OAuth
// endpoint. The token never refreshes itself; expiry is exposed as a query
// and re-minting is the transport's job.
package token

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Capability URIs tested against the token scope. Presence means the
// associated privileged endpoints may be called while the token is valid.
const (
	vaultingScope = "https://uri.paypal.com/services/vault/payment-tokens/readwrite"
	trackingScope = "https://uri.paypal.com/services/shipping/trackers/readwrite"
)

// Token is an opaque bearer credential with expiry and scope-derived
// capability flags.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	Scope       string
	Created     time.Time
}

// IsValid reports whether the token is still usable. Capability queries are
// only meaningful while this returns true.
func (t *Token) IsValid() bool {
	return t.isValidAt(time.Now())
}

func (t *Token) isValidAt(now time.Time) bool {
	return now.Before(t.ExpiresAt())
}

func (t *Token) ExpiresAt() time.Time {
	return t.Created.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// VaultingAvailable reports whether the scope grants payment-token vaulting.
func (t *Token) VaultingAvailable() bool {
	return strings.Contains(t.Scope, vaultingScope)
}

// TrackingAvailable reports whether the scope grants shipment tracking.
func (t *Token) TrackingAvailable() bool {
	return strings.Contains(t.Scope, trackingScope)
}

type tokenJSON struct {
	AccessToken string `json:"access_token"`
	ClientToken string `json:"client_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
	Created     int64  `json:"created"`
}

// Parse decodes a token response. Either access_token or client_token must
// be present; created is stamped at mint time when the payload omits it.
func Parse(data []byte) (*Token, error) {
	var raw tokenJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	value := raw.AccessToken
	if value == "" {
		value = raw.ClientToken
	}
	if value == "" {
		return nil, fmt.Errorf("token response carries neither access_token nor client_token")
	}
	if raw.ExpiresIn <= 0 {
		return nil, fmt.Errorf("token response missing expires_in")
	}

	created := time.Now()
	if raw.Created > 0 {
		created = time.Unix(raw.Created, 0)
	}

	return &Token{
		AccessToken: value,
		TokenType:   raw.TokenType,
		ExpiresIn:   raw.ExpiresIn,
		Scope:       raw.Scope,
		Created:     created,
	}, nil
}
