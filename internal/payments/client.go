// Package payments talks to the external payment gateway. The gateway is
// reached over its HTTP contract only; a circuit breaker shields checkout
// from a flapping upstream.
package payments

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// GatewayOrder is the opaque handle returned by the gateway, stored on the
// order to reconcile payment status later.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// UpstreamError wraps a gateway failure so handlers can map it to an
// upstream-failure response with the original detail attached.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(keyID, keySecret).
		SetTimeout(10 * time.Second)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("circuit breaker state changed")
		},
	})

	return &Client{http: httpClient, breaker: breaker}
}

// CreateOrder registers an amount (in minor currency units) with the
// gateway and returns its opaque order handle.
func (c *Client) CreateOrder(amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var order GatewayOrder
		resp, err := c.http.R().
			SetBody(createOrderRequest{Amount: amountMinor, Currency: currency, Receipt: receipt}).
			SetResult(&order).
			Post("/v1/orders")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode(), resp.String())
		}
		return &order, nil
	})
	if err != nil {
		return nil, &UpstreamError{Op: "create order", Err: err}
	}
	return result.(*GatewayOrder), nil
}

// MinorUnits converts a major-unit amount to the gateway's minor units,
// rounding to the nearest unit to avoid float drift on totals like 19.999.
func MinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
