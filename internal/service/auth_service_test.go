package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"autoparts-backoffice/internal/model"
)

func TestValidateToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/current" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		switch r.Header.Get("Authorization") {
		case "Bearer token-admin":
			w.Write([]byte(`{"id":"A1","name":"Ana","role":"admin","enabled":true}`))
		case "Bearer token-disabled":
			w.Write([]byte(`{"id":"U9","name":"Beto","role":"client","enabled":false}`))
		case "Bearer token-weird-role":
			w.Write([]byte(`{"id":"U8","name":"Caro","role":"superuser","enabled":true}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	auth := NewAuthService(srv.URL)

	t.Run("valid admin token", func(t *testing.T) {
		session, err := auth.ValidateToken(context.Background(), "token-admin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.UserID != "A1" || !session.IsAdmin() {
			t.Fatalf("unexpected session %+v", session)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		_, err := auth.ValidateToken(context.Background(), "token-vencido")
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("disabled user", func(t *testing.T) {
		if _, err := auth.ValidateToken(context.Background(), "token-disabled"); err == nil {
			t.Fatal("disabled user must be rejected")
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := auth.ValidateToken(context.Background(), "token-weird-role")
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("session is a plain value", func(t *testing.T) {
		session, err := auth.ValidateToken(context.Background(), "token-admin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.Role != model.RoleAdmin {
			t.Fatalf("unexpected role %s", session.Role)
		}
	})
}
