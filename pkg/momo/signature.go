package momo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SignatureFields carries every value the gateway folds into the request
// signature. Field order in the canonical string is fixed by the gateway
// contract and does not follow struct order.
type SignatureFields struct {
	AccessKey   string
	Amount      string
	ExtraData   string
	IPNURL      string
	OrderID     string
	OrderInfo   string
	PartnerCode string
	RedirectURL string
	RequestID   string
	RequestType string
}

// Signer produces hex-encoded HMAC-SHA256 signatures over the canonical
// field string.
type Signer struct {
	secretKey []byte
}

func NewSigner(secretKey string) *Signer {
	return &Signer{secretKey: []byte(secretKey)}
}

// Sign builds the canonical string and returns its HMAC-SHA256 hex digest.
// Empty values still contribute their key=value pair, so two requests that
// differ only in an empty-versus-missing field cannot collide.
func (s *Signer) Sign(fields SignatureFields) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write([]byte(canonicalString(fields)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the provided hex signature matches the fields.
// Comparison is constant time.
func (s *Signer) Verify(fields SignatureFields, signature string) bool {
	expected := s.Sign(fields)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// canonicalString joins the signature fields in the gateway's fixed
// alphabetical key order.
func canonicalString(f SignatureFields) string {
	pairs := []string{
		fmt.Sprintf("accessKey=%s", f.AccessKey),
		fmt.Sprintf("amount=%s", f.Amount),
		fmt.Sprintf("extraData=%s", f.ExtraData),
		fmt.Sprintf("ipnUrl=%s", f.IPNURL),
		fmt.Sprintf("orderId=%s", f.OrderID),
		fmt.Sprintf("orderInfo=%s", f.OrderInfo),
		fmt.Sprintf("partnerCode=%s", f.PartnerCode),
		fmt.Sprintf("redirectUrl=%s", f.RedirectURL),
		fmt.Sprintf("requestId=%s", f.RequestID),
		fmt.Sprintf("requestType=%s", f.RequestType),
	}
	return strings.Join(pairs, "&")
}
