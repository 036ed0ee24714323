package pay

import "testing"

func TestVerifyHMAC(t *testing.T) {
	body := []byte("{\"refund_id\":\"re_1\"}")
	secret := "secret"
	signature := "2dea2b0fcaf0bb5cc817f4e16dab169ac33bc77f79e023db3c237a28c7a7c380"
	if !VerifyHMAC(body, signature, secret) {
		t.Fatal("expected signature to be valid")
	}
	if VerifyHMAC(body, "deadbeef", secret) {
		t.Fatal("unexpected valid signature")
	}
	if VerifyHMAC(body, "not-hex", secret) {
		t.Fatal("malformed signature must not verify")
	}
}

func TestSignRoundTrip(t *testing.T) {
	body := []byte("{\"amount\":5000}")
	sig := Sign(body, "secret")
	if !VerifyHMAC(body, sig, "secret") {
		t.Fatal("signature produced by Sign must verify")
	}
	if VerifyHMAC(body, sig, "other-secret") {
		t.Fatal("signature must not verify under a different secret")
	}
}
