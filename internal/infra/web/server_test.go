package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/usecase"
)

const testSecret = "test-admin-secret"

func newTestServer(codeUC usecase.CodeUseCase, statsUC usecase.StatsUseCase) *Server {
	logger := zerolog.Nop()
	auth := NewAuthManager(testSecret, time.Minute)
	return NewServer(codeUC, statsUC, auth, testSecret, &logger)
}

func loginToken(t *testing.T, router http.Handler) string {
	t.Helper()
	body, _ := json.Marshal(loginRequest{Secret: testSecret})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d", rec.Code)
	}
	var resp loginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("login: decode: %v", err)
	}
	return resp.Token
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router := newTestServer(&stubCodeUC{}, &stubStatsUC{}).Router()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLoginWrongSecret(t *testing.T) {
	t.Parallel()

	router := newTestServer(&stubCodeUC{}, &stubStatsUC{}).Router()
	body, _ := json.Marshal(loginRequest{Secret: "wrong"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router := newTestServer(&stubCodeUC{}, &stubStatsUC{}).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/codes", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/codes", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", rec.Code)
	}
}

func TestListCodesAuthorized(t *testing.T) {
	t.Parallel()

	codeUC := &stubCodeUC{codes: []*model.ReferralCode{
		{ID: 1, Value: "AAA1", UsageCount: 2},
		{ID: 2, Value: "BBB2", UsageCount: 0},
	}}
	router := newTestServer(codeUC, &stubStatsUC{}).Router()
	token := loginToken(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/codes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var out []codeDTO
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].Code != "AAA1" || out[0].UsageCount != 2 {
		t.Fatalf("body = %+v", out)
	}
}

func TestDeleteCode(t *testing.T) {
	t.Parallel()

	codeUC := &stubCodeUC{}
	router := newTestServer(codeUC, &stubStatsUC{}).Router()
	token := loginToken(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/codes/AAA1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	codeUC.removeErr = domain.ErrCodeNotFound
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/codes/GHOST", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	statsUC := &stubStatsUC{stats: &usecase.Stats{Codes: 3, TotalUsage: 5, Adds: 4, Gets: 5}}
	router := newTestServer(&stubCodeUC{}, statsUC).Router()
	token := loginToken(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got usecase.Stats
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != *statsUC.stats {
		t.Fatalf("stats = %+v", got)
	}
}

func TestAuthManagerRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	mint := NewAuthManager("secret-a", time.Minute)
	verify := NewAuthManager("secret-b", time.Minute)

	token, err := mint.Mint()
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := verify.parse(token); err == nil {
		t.Fatal("token signed with a different secret must fail")
	}
	if _, err := mint.parse(token); err != nil {
		t.Fatalf("own token should verify: %v", err)
	}
}
