package billing

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrClientKeyMissing is returned when the provider client key is not
// configured and a redirect authorization is required.
var ErrClientKeyMissing = errors.New("payment provider client key not configured")

// Provider carries the payment provider settings needed to build a
// billing-key authorization redirect.
type Provider struct {
	ClientKey    string
	AuthorizeURL string
}

func NewProvider(clientKey, authorizeURL string) *Provider {
	return &Provider{ClientKey: clientKey, AuthorizeURL: authorizeURL}
}

// NewCustomerKey derives the provider customer key for a user. The
// timestamp suffix keeps keys unique across re-registrations.
func NewCustomerKey(userID int64) string {
	return fmt.Sprintf("customer_%d_%d", userID, time.Now().UnixMilli())
}

// AuthParams describes one billing-key authorization round trip.
type AuthParams struct {
	CustomerKey   string
	CustomerName  string
	OrderID       int64
	PaymentMethod string
	SuccessURL    string
	FailURL       string
}

// AuthorizationURL builds the provider redirect URL for registering a
// billing key. The order id and payment method ride along on the success
// URL so the callback can resume checkout.
func (p *Provider) AuthorizationURL(params AuthParams) (string, error) {
	if p.ClientKey == "" {
		return "", ErrClientKeyMissing
	}

	success, err := url.Parse(params.SuccessURL)
	if err != nil {
		return "", fmt.Errorf("invalid success url: %w", err)
	}
	q := success.Query()
	if params.OrderID > 0 {
		q.Set("orderId", strconv.FormatInt(params.OrderID, 10))
	}
	if params.PaymentMethod != "" {
		q.Set("paymentMethod", params.PaymentMethod)
	}
	success.RawQuery = q.Encode()

	v := url.Values{}
	v.Set("clientKey", p.ClientKey)
	v.Set("customerKey", params.CustomerKey)
	if params.CustomerName != "" {
		v.Set("customerName", params.CustomerName)
	}
	v.Set("successUrl", success.String())
	v.Set("failUrl", params.FailURL)

	return p.AuthorizeURL + "?" + v.Encode(), nil
}

// IsBillingFailure reports whether a provider failure code points at the
// billing-key registration itself rather than the payment.
func IsBillingFailure(code string) bool {
	upper := strings.ToUpper(code)
	return strings.Contains(upper, "BILLING") || strings.Contains(upper, "BILL_KEY")
}
