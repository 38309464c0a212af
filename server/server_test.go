package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAsker struct {
	answer   string
	err      error
	question string
	data     contractx.CompanyProfile
	headers  http.Header
}

func (f *fakeAsker) Ask(ctx context.Context, question string, data contractx.CompanyProfile, headers http.Header) (string, error) {
	f.question = question
	f.data = data
	f.headers = headers
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func surveyBody() string {
	fields := []string{
		"formalization_level", "automation_systems", "kpi_metrics",
		"data_driven_decisions", "it_systems_used", "systems_integration",
		"cloud_services_usage", "info_security_measures", "digital_literacy",
		"training_programs", "it_specialists_in_house",
		"employees_automation_perception", "it_strategy",
		"state_electronic_services", "future_implementation_plans",
	}
	payload := make(map[string]string, len(fields))
	for _, f := range fields {
		payload[f] = "yes"
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestDigitalMaturityEndpoint(t *testing.T) {
	t.Parallel()

	asker := &fakeAsker{answer: "maturity is high"}
	router := New(asker).Router()

	req := httptest.NewRequest(http.MethodPost, "/digitalMaturity", strings.NewReader(surveyBody()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok-a")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["result"] != "maturity is high" {
		t.Fatalf("unexpected result: %s", resp["result"])
	}
	if asker.question != assessmentQuestion {
		t.Fatalf("unexpected question: %s", asker.question)
	}
	if asker.data["automation_systems"] != "yes" {
		t.Fatalf("profile not forwarded: %v", asker.data)
	}
	if got := asker.headers.Get("Authorization"); got != "Bearer tok-a" {
		t.Fatalf("authorization not forwarded: %q", got)
	}
}

func TestDigitalMaturityRejectsIncompleteSurvey(t *testing.T) {
	t.Parallel()

	router := New(&fakeAsker{}).Router()

	req := httptest.NewRequest(http.MethodPost, "/digitalMaturity", strings.NewReader(`{"formalization_level":"yes"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAskQuestionEndpoint(t *testing.T) {
	t.Parallel()

	asker := &fakeAsker{answer: "42"}
	router := New(asker).Router()

	req := httptest.NewRequest(http.MethodPost, "/askQuestion", strings.NewReader(`{"question":"what grants exist?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	if asker.question != "what grants exist?" {
		t.Fatalf("unexpected question: %s", asker.question)
	}
	if asker.data != nil {
		t.Fatalf("free question must not carry a profile: %v", asker.data)
	}
}

func TestMissingCredentialMapsToClientError(t *testing.T) {
	t.Parallel()

	asker := &fakeAsker{err: fmt.Errorf("resolve: %w", contractx.ErrMissingCredential)}
	router := New(asker).Router()

	req := httptest.NewRequest(http.MethodPost, "/askQuestion", strings.NewReader(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRemoteFailureMapsToServerError(t *testing.T) {
	t.Parallel()

	asker := &fakeAsker{err: fmt.Errorf("%w: upstream timeout", contractx.ErrModelInvoke)}
	router := New(asker).Router()

	req := httptest.NewRequest(http.MethodPost, "/askQuestion", strings.NewReader(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestNormalizeAuthorization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Bearer abc", "Bearer abc"},
		{"bearer abc", "bearer abc"},
		{`"Bearer abc"`, "Bearer abc"},
		{"'abc'", "Bearer abc"},
		{"abc", "Bearer abc"},
		{"Token abc", "Bearer abc"},
		{"  Bearer abc  ", "Bearer abc"},
		{"", ""},
		{`""`, ""},
	}
	for _, tc := range cases {
		if got := NormalizeAuthorization(tc.in); got != tc.want {
			t.Fatalf("NormalizeAuthorization(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
