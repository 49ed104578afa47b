package util

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptAES(t *testing.T) {
	plain := []byte("sensitive payload")

	ct, err := EncryptAES("some-key", plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(ct, plain) {
		t.Fatal("ciphertext contains plaintext")
	}

	got, err := DecryptAES("some-key", ct)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("round trip = %q, want %q", got, plain)
	}
}

func TestDecryptAESWrongKey(t *testing.T) {
	ct, err := EncryptAES("key-a", []byte("secret"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := DecryptAES("key-b", ct); err == nil {
		t.Fatal("decrypt with wrong key succeeded")
	}
}

func TestEncryptAESNonceVaries(t *testing.T) {
	a, err := EncryptAES("k", []byte("same input"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := EncryptAES("k", []byte("same input"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two encryptions produced identical output")
	}
}

func TestEncryptFieldRoundTrip(t *testing.T) {
	enc, err := EncryptField("key", "user@example.com")
	if err != nil {
		t.Fatalf("encrypt field: %v", err)
	}
	if enc == "user@example.com" {
		t.Fatal("field not encrypted")
	}
	if got := DecryptField("key", enc); got != "user@example.com" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestEncryptFieldEmptyPassthrough(t *testing.T) {
	enc, err := EncryptField("key", "")
	if err != nil {
		t.Fatalf("encrypt field: %v", err)
	}
	if enc != "" {
		t.Fatalf("empty input became %q", enc)
	}
	if got := DecryptField("key", "not-base64!!"); got != "not-base64!!" {
		t.Fatalf("undecryptable value = %q, want passthrough", got)
	}
}

func TestHashEmailDeterministicAndNormalized(t *testing.T) {
	a := HashEmail("salt", "User@Example.com")
	b := HashEmail("salt", "  user@example.com ")
	if a != b {
		t.Fatalf("normalization broken: %q != %q", a, b)
	}
	if a == HashEmail("other-salt", "user@example.com") {
		t.Fatal("salt does not affect the hash")
	}
	if a == HashEmail("salt", "other@example.com") {
		t.Fatal("different emails collide")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(20)
	if err != nil {
		t.Fatalf("random string: %v", err)
	}
	if len(s) != 20 {
		t.Fatalf("length = %d, want 20", len(s))
	}
	s2, err := RandomString(20)
	if err != nil {
		t.Fatalf("random string: %v", err)
	}
	if s == s2 {
		t.Fatal("two random strings are identical")
	}
	if _, err := RandomString(0); err == nil {
		t.Fatal("zero length accepted")
	}
}
