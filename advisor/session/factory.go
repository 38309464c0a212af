// Package session builds and caches remote-agent sessions keyed by the
// bearer credential they were created with.
package session

import (
	"context"
	"fmt"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
	llmx "github.com/digitaldept/business-advisor/advisor/llm"
)

// conversationID is constant across calls: the remote agent's own
// conversation memory is effectively reset on every invocation.
const conversationID = "advisor-main"

const defaultMaxStep = 12

// Session is one live agent binding tied to a single credential.
type Session struct {
	credential string
	runner     runner
}

type runner interface {
	Generate(ctx context.Context, input []*schema.Message) (*schema.Message, error)
}

// NewSession wraps a runner into a session. Exposed for tests and fakes.
func NewSession(credential string, r runner) *Session {
	return &Session{credential: credential, runner: r}
}

// Credential returns the bearer token this session was built with.
func (s *Session) Credential() string {
	return s.credential
}

// ConversationID returns the fixed conversation identifier.
func (s *Session) ConversationID() string {
	return conversationID
}

// Generate runs one turn against the remote agent and returns its final
// message. Failures propagate unchanged; no retries are performed.
func (s *Session) Generate(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
	return s.runner.Generate(ctx, input)
}

// Factory constructs a session for a credential.
type Factory interface {
	Build(ctx context.Context, credential string) (*Session, error)
}

// AgentFactory builds ReAct agent sessions over the GigaChat chat model with
// the advisor tool surface bound.
type AgentFactory struct {
	cfg     llmx.Config
	tools   []einotool.BaseTool
	maxStep int
}

func NewAgentFactory(cfg llmx.Config, tools []einotool.BaseTool) *AgentFactory {
	return &AgentFactory{
		cfg:     cfg,
		tools:   tools,
		maxStep: defaultMaxStep,
	}
}

func (f *AgentFactory) Build(ctx context.Context, credential string) (*Session, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, contractx.ErrMissingCredential
	}

	chatModel, err := f.cfg.NewChatModel(ctx, credential)
	if err != nil {
		return nil, err
	}

	prompt := systemPrompt()
	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: f.tools,
		},
		MessageModifier: func(ctx context.Context, input []*schema.Message) []*schema.Message {
			return append([]*schema.Message{schema.SystemMessage(prompt)}, input...)
		},
		MaxStep: f.maxStep,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create react agent: %v", contractx.ErrModelInvoke, err)
	}

	return NewSession(credential, reactRunner{agent: agent}), nil
}

type reactRunner struct {
	agent *react.Agent
}

func (r reactRunner) Generate(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
	return r.agent.Generate(ctx, input)
}
