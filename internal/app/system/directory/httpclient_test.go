package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, "test-token", 5*time.Second), srv
}

func TestCreateIdentity(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/users" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "zeh-0001@zehsscwu.org" {
			t.Errorf("email = %q", body["email"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":       "8b6d2e1a-0000-4000-8000-000000000001",
			"email":    body["email"],
			"username": body["username"],
			"role":     body["role"],
		})
	}))

	got, err := c.CreateIdentity(context.Background(), NewIdentity{
		Email:    "zeh-0001@zehsscwu.org",
		Password: "ZEH-0001",
		Username: "ZEH-0001",
		Role:     "member",
	})
	if err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}
	if got.ID != "8b6d2e1a-0000-4000-8000-000000000001" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.Role != "member" {
		t.Errorf("Role = %q", got.Role)
	}
}

func TestCreateIdentity_Conflict(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "email already registered"})
	}))

	_, err := c.CreateIdentity(context.Background(), NewIdentity{Email: "dup@zehsscwu.org", Password: "x"})
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("want Conflict, got %v (kind %v)", err, apperr.KindOf(err))
	}
	if apperr.Message(err) != "email already registered" {
		t.Errorf("message = %q", apperr.Message(err))
	}
}

func TestDeleteIdentity_NotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	err := c.DeleteIdentity(context.Background(), "missing-id")
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func TestDeleteIdentity_OK(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/users/abc-123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := c.DeleteIdentity(context.Background(), "abc-123"); err != nil {
		t.Fatalf("DeleteIdentity: %v", err)
	}
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Authenticate(context.Background(), "user@zehsscwu.org", "wrong")
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("want Validation, got %v", err)
	}
}

func TestAuthenticate_ServerError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.Authenticate(context.Background(), "user@zehsscwu.org", "pw")
	if !apperr.Is(err, apperr.Remote) {
		t.Fatalf("want Remote, got %v", err)
	}
}

func TestTransportFailureIsRemote(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, "tok", 2*time.Second)
	_, err := c.CreateIdentity(context.Background(), NewIdentity{Email: "a@b.c", Password: "x"})
	if !apperr.Is(err, apperr.Remote) {
		t.Fatalf("want Remote, got %v", err)
	}
}
