package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVerify_ValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_token"); got != "valid-token" {
			t.Errorf("id_token = %q, want %q", got, "valid-token")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"sub":"user-123","email":"dev@codelife.example","exp":"%d"}`, exp)
	}))
	t.Cleanup(idp.Close)

	verifier := NewTokeninfoVerifier(TokeninfoVerifierConfig{TokeninfoURL: idp.URL})

	identity, err := verifier.Verify(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", identity.UserID, "user-123")
	}
	if identity.Email != "dev@codelife.example" {
		t.Errorf("Email = %q, want %q", identity.Email, "dev@codelife.example")
	}
}

func TestVerify_InvalidToken(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_token"}`)
	}))
	t.Cleanup(idp.Close)

	verifier := NewTokeninfoVerifier(TokeninfoVerifierConfig{TokeninfoURL: idp.URL})

	if _, err := verifier.Verify(context.Background(), "bogus"); err == nil {
		t.Fatal("expected error for rejected token")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Unix()
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"sub":"user-123","email":"dev@codelife.example","exp":"%d"}`, exp)
	}))
	t.Cleanup(idp.Close)

	verifier := NewTokeninfoVerifier(TokeninfoVerifierConfig{TokeninfoURL: idp.URL})

	if _, err := verifier.Verify(context.Background(), "stale"); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerify_MissingSub(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"email":"dev@codelife.example"}`)
	}))
	t.Cleanup(idp.Close)

	verifier := NewTokeninfoVerifier(TokeninfoVerifierConfig{TokeninfoURL: idp.URL})

	if _, err := verifier.Verify(context.Background(), "no-sub"); err == nil {
		t.Fatal("expected error when sub is missing")
	}
}

func TestVerify_UnreachableIdP(t *testing.T) {
	verifier := NewTokeninfoVerifier(TokeninfoVerifierConfig{TokeninfoURL: "http://127.0.0.1:1"})

	if _, err := verifier.Verify(context.Background(), "any"); err == nil {
		t.Fatal("expected error when IdP is unreachable")
	}
}
