// Package dispatch turns a caller question into an agent invocation and
// extracts the final answer text.
package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
	maturityx "github.com/digitaldept/business-advisor/advisor/maturity"
	profilex "github.com/digitaldept/business-advisor/advisor/profile"
	sessionx "github.com/digitaldept/business-advisor/advisor/session"
)

// profileHeading labels the structured data block appended to the question.
// The profile is downgraded to plain text on purpose: the remote schema
// validator rejects unexpected structured fields.
const profileHeading = "Company profile:"

// SessionSource yields the agent session for a request's credentials.
type SessionSource interface {
	GetSession(ctx context.Context, headers http.Header) (*sessionx.Session, error)
}

type Dispatcher struct {
	sessions SessionSource
}

func New(sessions SessionSource) *Dispatcher {
	return &Dispatcher{sessions: sessions}
}

// Ask sends the question (with the optional company profile rendered inline)
// to the agent session resolved from the request headers and returns the
// agent's final answer text. The profile also travels on the call context so
// tools invoked during the turn read this request's data.
func (d *Dispatcher) Ask(ctx context.Context, question string, data contractx.CompanyProfile, headers http.Header) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", contractx.ErrValidation)
	}

	sess, err := d.sessions.GetSession(ctx, headers)
	if err != nil {
		return "", err
	}

	text := question
	if data != nil {
		text = question + "\n\n" + profileHeading + "\n" + renderProfile(data)
		ctx = profilex.NewContext(ctx, data)
	}

	answer, err := sess.Generate(ctx, []*schema.Message{schema.UserMessage(text)})
	if err != nil {
		return "", err
	}
	if answer == nil {
		return "", fmt.Errorf("%w: empty agent response", contractx.ErrModelInvoke)
	}
	return answer.Content, nil
}

// renderProfile produces newline-joined "key: value" pairs: scored attributes
// first in their canonical order, any extra keys after them sorted by name.
func renderProfile(data contractx.CompanyProfile) string {
	known := maturityx.AttributeNames()
	seen := make(map[string]bool, len(known))

	lines := make([]string, 0, len(data))
	for _, name := range known {
		if value, ok := data[name]; ok {
			lines = append(lines, fmt.Sprintf("%s: %v", name, value))
			seen[name] = true
		}
	}

	extras := make([]string, 0, len(data))
	for name := range data {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		lines = append(lines, fmt.Sprintf("%s: %v", name, data[name]))
	}

	return strings.Join(lines, "\n")
}
