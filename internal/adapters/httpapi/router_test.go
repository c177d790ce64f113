package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chatline/chatline/internal/app"
	"github.com/chatline/chatline/internal/auth"
	"github.com/chatline/chatline/internal/config"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Mode:         "release",
		StaticPath:   t.TempDir(),
		ReadLimit:    32768,
		WriteTimeout: time.Second,
		SendBuffer:   32,
		Secret:       "router-test-secret",
	}
	relay := app.NewRelay(app.NewPresence())
	return SetupRouter(context.Background(), cfg, relay)
}

func TestLoginIssuesCredential(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"alice","avatar":"/a.png"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var user struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.ID == "" || user.Username != "alice" || user.Avatar != "/a.png" {
		t.Fatalf("user = %+v", user)
	}

	resp := rec.Result()
	var credential string
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			credential = c.Value
		}
	}
	if credential == "" {
		t.Fatal("no credential cookie set")
	}

	codec := auth.NewCodec("router-test-secret")
	cred, err := codec.Verify(credential)
	if err != nil {
		t.Fatalf("issued credential does not verify: %v", err)
	}
	if string(cred.UserID) != user.ID || cred.Username != "alice" {
		t.Fatalf("credential = %+v, want identity of %+v", cred, user)
	}
}

func TestLoginRejectsBadPayloads(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"no username", `{"avatar":"/a.png"}`},
		{"empty username", `{"username":""}`},
		{"username too long", `{"username":"` + strings.Repeat("x", 64) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSignalEndpointGuarded(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ws/signal", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
