package dispatch

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
	profilex "github.com/digitaldept/business-advisor/advisor/profile"
	sessionx "github.com/digitaldept/business-advisor/advisor/session"
)

type capturingRunner struct {
	lastText        string
	profileAttached bool
	answer          string
	err             error
}

func (r *capturingRunner) Generate(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
	if len(input) > 0 {
		r.lastText = input[len(input)-1].Content
	}
	_, r.profileAttached = profilex.FromContext(ctx)
	if r.err != nil {
		return nil, r.err
	}
	return schema.AssistantMessage(r.answer, nil), nil
}

type fakeSource struct {
	session *sessionx.Session
	err     error
	headers http.Header
}

func (f *fakeSource) GetSession(ctx context.Context, headers http.Header) (*sessionx.Session, error) {
	f.headers = headers
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func TestAskPlainQuestion(t *testing.T) {
	t.Parallel()

	runner := &capturingRunner{answer: "the answer"}
	source := &fakeSource{session: sessionx.NewSession("tok", runner)}
	d := New(source)

	got, err := d.Ask(context.Background(), "What is a CRM?", nil, http.Header{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "the answer" {
		t.Fatalf("unexpected answer: %s", got)
	}
	if runner.lastText != "What is a CRM?" {
		t.Fatalf("question was rewritten: %q", runner.lastText)
	}
	if runner.profileAttached {
		t.Fatal("no profile should be attached for a plain question")
	}
}

func TestAskWithProfileRendersTextBlock(t *testing.T) {
	t.Parallel()

	runner := &capturingRunner{answer: "assessed"}
	source := &fakeSource{session: sessionx.NewSession("tok", runner)}
	d := New(source)

	data := contractx.CompanyProfile{
		"automation_systems":  "no",
		"formalization_level": "yes",
		"custom_note":         "family business",
	}
	_, err := d.Ask(context.Background(), "Assess the company's digital maturity level", data, http.Header{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !runner.profileAttached {
		t.Fatal("profile must travel on the call context")
	}
	if !strings.Contains(runner.lastText, "Company profile:") {
		t.Fatalf("missing profile heading in: %q", runner.lastText)
	}
	// Canonical attribute order, extras after.
	formalization := strings.Index(runner.lastText, "formalization_level: yes")
	automation := strings.Index(runner.lastText, "automation_systems: no")
	custom := strings.Index(runner.lastText, "custom_note: family business")
	if formalization < 0 || automation < 0 || custom < 0 {
		t.Fatalf("profile lines missing in: %q", runner.lastText)
	}
	if !(formalization < automation && automation < custom) {
		t.Fatalf("unexpected line order in: %q", runner.lastText)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	t.Parallel()

	d := New(&fakeSource{})
	_, err := d.Ask(context.Background(), "  ", nil, http.Header{})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAskSessionErrorPropagates(t *testing.T) {
	t.Parallel()

	d := New(&fakeSource{err: contractx.ErrMissingCredential})
	_, err := d.Ask(context.Background(), "hello", nil, http.Header{})
	if !errors.Is(err, contractx.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestAskGenerateErrorPropagates(t *testing.T) {
	t.Parallel()

	runner := &capturingRunner{err: errors.New("remote side failed")}
	d := New(&fakeSource{session: sessionx.NewSession("tok", runner)})

	_, err := d.Ask(context.Background(), "hello", nil, http.Header{})
	if err == nil || !strings.Contains(err.Error(), "remote side failed") {
		t.Fatalf("expected remote failure to propagate unchanged, got %v", err)
	}
}
