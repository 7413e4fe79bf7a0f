package momo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sampleFields() SignatureFields {
	return SignatureFields{
		AccessKey:   "access-key",
		Amount:      "150000",
		ExtraData:   "",
		IPNURL:      "https://momo.vn",
		OrderID:     "1700000000000",
		OrderInfo:   " thanh toán qua momo ",
		PartnerCode: "PARTNER",
		RedirectURL: "https://shop.example.com/profile/mybooking",
		RequestID:   "req-1",
		RequestType: "captureWallet",
	}
}

func TestSignMatchesManualHMAC(t *testing.T) {
	t.Parallel()

	fields := sampleFields()
	secret := "super-secret"

	raw := "accessKey=access-key" +
		"&amount=150000" +
		"&extraData=" +
		"&ipnUrl=https://momo.vn" +
		"&orderId=1700000000000" +
		"&orderInfo= thanh toán qua momo " +
		"&partnerCode=PARTNER" +
		"&redirectUrl=https://shop.example.com/profile/mybooking" +
		"&requestId=req-1" +
		"&requestType=captureWallet"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	want := hex.EncodeToString(mac.Sum(nil))

	got := NewSigner(secret).Sign(fields)
	if got != want {
		t.Fatalf("signature mismatch: got %s want %s", got, want)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	t.Parallel()

	signer := NewSigner("secret")
	first := signer.Sign(sampleFields())
	second := signer.Sign(sampleFields())
	if first != second {
		t.Fatalf("same fields produced different signatures: %s vs %s", first, second)
	}
}

func TestSignChangesWithAnyField(t *testing.T) {
	t.Parallel()

	signer := NewSigner("secret")
	base := signer.Sign(sampleFields())

	mutations := map[string]func(*SignatureFields){
		"amount":    func(f *SignatureFields) { f.Amount = "150001" },
		"orderId":   func(f *SignatureFields) { f.OrderID = "1700000000001" },
		"extraData": func(f *SignatureFields) { f.ExtraData = "x" },
		"ipnUrl":    func(f *SignatureFields) { f.IPNURL = "https://other.example" },
	}
	for name, mutate := range mutations {
		fields := sampleFields()
		mutate(&fields)
		if signer.Sign(fields) == base {
			t.Fatalf("mutating %s did not change signature", name)
		}
	}
}

func TestSignDiffersAcrossKeys(t *testing.T) {
	t.Parallel()

	fields := sampleFields()
	if NewSigner("key-a").Sign(fields) == NewSigner("key-b").Sign(fields) {
		t.Fatal("different secrets produced identical signatures")
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	signer := NewSigner("secret")
	fields := sampleFields()
	sig := signer.Sign(fields)

	if !signer.Verify(fields, sig) {
		t.Fatal("valid signature rejected")
	}

	tampered := sig[:len(sig)-1] + "0"
	if tampered == sig {
		tampered = sig[:len(sig)-1] + "1"
	}
	if signer.Verify(fields, tampered) {
		t.Fatal("tampered signature accepted")
	}

	fields.Amount = "1"
	if signer.Verify(fields, sig) {
		t.Fatal("signature accepted for altered fields")
	}
}
