package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/societyhq/member-staff-service/internal/auth"
)

const testSecret = "test-secret"

func okHandler(t *testing.T, sawIdentity *auth.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sawIdentity != nil {
			*sawIdentity = GetIdentity(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestAuthMiddleware(t *testing.T) {
	ident := auth.Identity{
		MemberID:  uuid.New(),
		UnitID:    7,
		CompanyID: 1,
		Roles:     []string{auth.RoleCommittee},
	}

	t.Run("valid token resolves the identity", func(t *testing.T) {
		token, err := auth.CreateToken(testSecret, ident, time.Hour)
		if err != nil {
			t.Fatalf("CreateToken: %v", err)
		}

		var seen auth.Identity
		handler := AuthMiddleware(testSecret)(okHandler(t, &seen))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if seen.MemberID != ident.MemberID {
			t.Errorf("identity member = %s, want %s", seen.MemberID, ident.MemberID)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		handler := AuthMiddleware(testSecret)(okHandler(t, nil))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if code := errorCode(t, rec); code != "missing_token" {
			t.Errorf("error = %q, want missing_token", code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.CreateToken(testSecret, ident, -time.Minute)
		if err != nil {
			t.Fatalf("CreateToken: %v", err)
		}

		handler := AuthMiddleware(testSecret)(okHandler(t, nil))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if code := errorCode(t, rec); code != "token_expired" {
			t.Errorf("error = %q, want token_expired", code)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		token, err := auth.CreateToken("other-secret", ident, time.Hour)
		if err != nil {
			t.Fatalf("CreateToken: %v", err)
		}

		handler := AuthMiddleware(testSecret)(okHandler(t, nil))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if code := errorCode(t, rec); code != "invalid_token" {
			t.Errorf("error = %q, want invalid_token", code)
		}
	})
}

func TestRequireMemberContext(t *testing.T) {
	run := func(t *testing.T, ident auth.Identity) *httptest.ResponseRecorder {
		token, err := auth.CreateToken(testSecret, ident, time.Hour)
		if err != nil {
			t.Fatalf("CreateToken: %v", err)
		}
		handler := AuthMiddleware(testSecret)(RequireMemberContext(okHandler(t, nil)))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("full context passes", func(t *testing.T) {
		rec := run(t, auth.Identity{MemberID: uuid.New(), UnitID: 7, CompanyID: 1})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing unit is rejected", func(t *testing.T) {
		rec := run(t, auth.Identity{MemberID: uuid.New(), CompanyID: 1})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if code := errorCode(t, rec); code != "member_context_missing" {
			t.Errorf("error = %q, want member_context_missing", code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	run := func(t *testing.T, roles []string) *httptest.ResponseRecorder {
		token, err := auth.CreateToken(testSecret, auth.Identity{MemberID: uuid.New(), Roles: roles}, time.Hour)
		if err != nil {
			t.Fatalf("CreateToken: %v", err)
		}
		handler := AuthMiddleware(testSecret)(RequireRole(auth.RoleCommittee)(okHandler(t, nil)))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("committee passes", func(t *testing.T) {
		if rec := run(t, []string{auth.RoleCommittee}); rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("non-committee is rejected", func(t *testing.T) {
		rec := run(t, []string{"resident"})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen == "" {
			t.Error("no request id in context")
		}
		if rec.Header().Get("X-Request-ID") != seen {
			t.Error("response header does not echo the request id")
		}
	})

	t.Run("propagates a supplied id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen != "abc-123" {
			t.Errorf("request id = %q, want abc-123", seen)
		}
	})
}
