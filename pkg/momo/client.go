package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vietshop/checkout-backend/pkg/config"
	"github.com/vietshop/checkout-backend/pkg/errors"
)

const (
	defaultRequestType = "captureWallet"
	defaultLang        = "en"

	// maxResponseBytes caps how much of the gateway response body is read.
	maxResponseBytes = 1 << 20
)

// CreatePaymentRequest is the wire payload sent to the gateway's create
// endpoint. Amount travels as a JSON number; the signature canonical string
// uses its decimal text form. The signature covers every field except itself
// and Lang.
type CreatePaymentRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

// CreatePaymentResponse is the subset of the gateway response the checkout
// flow consumes.
type CreatePaymentResponse struct {
	PartnerCode string `json:"partnerCode"`
	OrderID     string `json:"orderId"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	PayURL      string `json:"payUrl"`
	ResultCode  int    `json:"resultCode"`
	Message     string `json:"message"`
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the MoMo create-payment endpoint with a bounded timeout.
type Client struct {
	endpoint string
	http     httpDoer
}

func NewClient(cfg config.MoMoConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// CreatePayment posts the signed request and returns the parsed response.
// Transport failures, non-2xx statuses and undecodable bodies all surface as
// CodeDependency so callers can refuse to stage an intent.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	if req.RequestType == "" {
		req.RequestType = defaultRequestType
	}
	if req.Lang == "" {
		req.Lang = defaultLang
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "encoding gateway request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "building gateway request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "payment gateway unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "reading gateway response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.CodeDependency,
			fmt.Sprintf("payment gateway returned status %d", resp.StatusCode))
	}

	var parsed CreatePaymentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "decoding gateway response")
	}

	if parsed.PayURL == "" {
		return nil, errors.New(errors.CodeDependency,
			fmt.Sprintf("gateway rejected payment request: %s", parsed.Message))
	}

	return &parsed, nil
}
