package lastfm

import (
	"errors"
	"testing"
)

// TestCalculateSignature_KnownAnswer verifies the documented signing
// formula: md5 of sorted key+value pairs with the secret appended.
func TestCalculateSignature_KnownAnswer(t *testing.T) {
	params := map[string]string{
		"method":  "auth.getToken",
		"api_key": "X",
	}

	// md5("api_keyXmethodauth.getTokenY")
	want := "17e08caf5649f2951f5179d7ba7845e6"

	got, err := calculateSignature(params, "Y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected signature %q, got %q", want, got)
	}
}

// TestCalculateSignature_ExcludedParams verifies that "format" and
// "api_sig" never contribute to the signature, regardless of value.
func TestCalculateSignature_ExcludedParams(t *testing.T) {
	base := map[string]string{
		"method":  "auth.getToken",
		"api_key": "test-api-key",
	}
	withExcluded := map[string]string{
		"method":  "auth.getToken",
		"api_key": "test-api-key",
		"format":  "json",
		"api_sig": "bogus",
	}

	sig1, err := calculateSignature(base, "test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sig2, err := calculateSignature(withExcluded, "test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sig1 != sig2 {
		t.Errorf("excluded params changed the signature: %q vs %q", sig1, sig2)
	}
	// md5("api_keytest-api-keymethodauth.getTokentest-secret")
	if want := "9c275d105f3b7875a25d8bf5b4cd3274"; sig1 != want {
		t.Errorf("expected signature %q, got %q", want, sig1)
	}
}

// TestCalculateSignature_SortsKeys verifies that insertion order does
// not matter: signatures sort keys alphabetically before hashing.
func TestCalculateSignature_SortsKeys(t *testing.T) {
	forward := map[string]string{}
	forward["artist"] = "Boards of Canada"
	forward["method"] = "artist.getinfo"
	forward["api_key"] = "k"
	forward["token"] = "t"

	reverse := map[string]string{}
	reverse["token"] = "t"
	reverse["api_key"] = "k"
	reverse["method"] = "artist.getinfo"
	reverse["artist"] = "Boards of Canada"

	sig1, err := calculateSignature(forward, "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sig2, err := calculateSignature(reverse, "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig1 != sig2 {
		t.Errorf("signature depends on insertion order: %q vs %q", sig1, sig2)
	}
}

func TestCalculateSignature_MissingSecret(t *testing.T) {
	_, err := calculateSignature(map[string]string{"method": "auth.getToken"}, "")
	if !errors.Is(err, ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}
}
