package payment

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrGatewayUnavailable covers network failures and 5xx responses.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrGatewayRejected covers 4xx responses and malformed payloads.
	ErrGatewayRejected = errors.New("payment request rejected")
	// ErrGatewayTimeout covers deadline and socket timeouts.
	ErrGatewayTimeout = errors.New("payment gateway timeout")
)

const (
	requestTimeout = 15 * time.Second
	currency       = "IDR"
)

type PaymentRequest struct {
	Amount  int64
	OrderID uint
}

type QRPayment struct {
	ExternalID      string
	PaymentMethodID string
	QRPayload       string
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+apiKey)
	return &Client{http: c}
}

// CreateQRPaymentRequest asks the processor for a scannable payment
// code denominated in req.Amount. The order id doubles as the
// reference and the idempotency key, so a retried initiation for the
// same order cannot create a second payment request.
func (c *Client) CreateQRPaymentRequest(ctx context.Context, req PaymentRequest) (*QRPayment, error) {
	ref := fmt.Sprintf("order-%d", req.OrderID)

	body := map[string]any{
		"reference_id": ref,
		"type":         "DYNAMIC",
		"currency":     currency,
		"amount":       req.Amount,
	}

	var out struct {
		ID              string `json:"id"`
		PaymentMethodID string `json:"payment_method_id"`
		QRString        string `json:"qr_string"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", ref).
		SetBody(body).
		SetResult(&out).
		Post("/qr_codes")
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	switch {
	case resp.StatusCode() >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode())
	case resp.StatusCode() >= 400:
		return nil, fmt.Errorf("%w: status %d: %s", ErrGatewayRejected, resp.StatusCode(), resp.Body())
	}

	if out.ID == "" || out.QRString == "" {
		return nil, fmt.Errorf("%w: incomplete response", ErrGatewayRejected)
	}

	return &QRPayment{
		ExternalID:      out.ID,
		PaymentMethodID: out.PaymentMethodID,
		QRPayload:       out.QRString,
	}, nil
}

// Retryable reports whether a failed initiation may be retried for the
// same order, as opposed to the gateway having rejected the request
// outright.
func Retryable(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable) || errors.Is(err, ErrGatewayTimeout)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
