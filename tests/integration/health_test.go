//go:build integration

package integration_test

import (
	"net/http"
	"testing"

	cfhttp "github.com/turnolink/turnolink/internal/adapter/http"
)

func TestPublicRoutes(t *testing.T) {
	resp := call(t, http.MethodGet, "/health", "", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}
	var health struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &health)
	if health.Status != "ok" {
		t.Fatalf("expected status 'ok', got %q", health.Status)
	}

	resp = call(t, http.MethodGet, "/api/v1/", "", "", nil)
	var version struct {
		Version string `json:"version"`
	}
	decodeBody(t, resp, &version)
	if version.Version != cfhttp.Version {
		t.Fatalf("version = %q, want %q", version.Version, cfhttp.Version)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestTenantRoutesRequireToken(t *testing.T) {
	for _, path := range []string{"/api/v1/customers", "/api/v1/tenant", "/api/v1/admin/tenants"} {
		if resp := call(t, http.MethodGet, path, "", "", nil); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", path, resp.StatusCode)
		}
	}
	if resp := call(t, http.MethodGet, "/api/v1/customers", "not-a-jwt", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", resp.StatusCode)
	}
}
