package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"paypal-order-sync/internal/config"
	"paypal-order-sync/internal/order"
	"paypal-order-sync/internal/patch"
	"paypal-order-sync/internal/token"
)

// PaypalClient is the transport for the Orders v2 resource. It owns retry-free
// single submissions; the snapshot baseline discipline lives in the service
// layer.
type PaypalClient interface {
	CreateOrder(ctx context.Context, desired *order.Order) (*CreateOrderResult, error)
	PatchOrder(ctx context.Context, orderID string, patches []patch.Patch) error
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	Capabilities(ctx context.Context) (vaulting, tracking bool, err error)
}

// CreateOrderResult is the remote's view of a freshly created order plus the
// buyer approval link.
type CreateOrderResult struct {
	Order      *order.Order
	ApproveURL string
}

type paypalClientImpl struct {
	httpClient         *http.Client
	baseApiURL         string
	paypalClientID     string
	paypalClientSecret string

	mu    sync.Mutex
	token *token.Token
}

func NewPaypalClient(paypalCfg *config.Paypal) PaypalClient {
	return &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:         paypalCfg.BaseApiURL,
		paypalClientID:     paypalCfg.ClientID,
		paypalClientSecret: paypalCfg.ClientSecret,
	}
}

// bearerToken returns the cached token, minting a new one once the old one
// expires. The token itself never refreshes; this is the external
// collaborator that does.
func (c *paypalClientImpl) bearerToken(ctx context.Context) (*token.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != nil && c.token.IsValid() {
		return c.token, nil
	}

	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.paypalClientID + ":" + c.paypalClientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal token error %d: %s", resp.StatusCode, string(body))
	}

	minted, err := token.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}
	c.token = minted
	return minted, nil
}

func (c *paypalClientImpl) CreateOrder(ctx context.Context, desired *order.Order) (*CreateOrderResult, error) {
	bearer, err := c.bearerToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	payload := struct {
		Intent        order.Intent         `json:"intent"`
		PurchaseUnits []order.PurchaseUnit `json:"purchase_units"`
		Payer         *order.Payer         `json:"payer,omitempty"`
	}{
		Intent:        desired.Intent,
		PurchaseUnits: desired.PurchaseUnits,
		Payer:         desired.Payer,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v2/checkout/orders",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+bearer.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	// Idempotency: retried submissions of the same request create one order.
	req.Header.Set("PayPal-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal create order request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read create order response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal error %d: %s", resp.StatusCode, string(respBody))
	}

	created, err := order.ParseOrder(respBody)
	if err != nil {
		return nil, fmt.Errorf("parse created order: %w", err)
	}

	return &CreateOrderResult{
		Order:      created,
		ApproveURL: extractApproveURL(respBody),
	}, nil
}

func (c *paypalClientImpl) PatchOrder(ctx context.Context, orderID string, patches []patch.Patch) error {
	bearer, err := c.bearerToken(ctx)
	if err != nil {
		return fmt.Errorf("get paypal access token: %w", err)
	}

	body, err := json.Marshal(patches)
	if err != nil {
		return fmt.Errorf("marshal patches: %w", err)
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s", c.baseApiURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("create patch request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+bearer.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal patch request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paypal patch failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *paypalClientImpl) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	bearer, err := c.bearerToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s", c.baseApiURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create get order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal get order request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read get order response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal error %d: %s", resp.StatusCode, string(respBody))
	}

	return order.ParseOrder(respBody)
}

// Capabilities reports whether the current credentials allow vaulting and
// shipment tracking, derived from the minted token's scope.
func (c *paypalClientImpl) Capabilities(ctx context.Context) (bool, bool, error) {
	bearer, err := c.bearerToken(ctx)
	if err != nil {
		return false, false, fmt.Errorf("get paypal access token: %w", err)
	}
	return bearer.VaultingAvailable(), bearer.TrackingAvailable(), nil
}

func extractApproveURL(body []byte) string {
	var raw struct {
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	for _, link := range raw.Links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}
