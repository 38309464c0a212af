// Package tool exposes the advisor capabilities that the remote agent runtime
// may call during a turn. Which tool is invoked, and when, is decided by the
// model; every tool therefore reads its input from the call context and
// answers in plain text the model can relay.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	catalogx "github.com/digitaldept/business-advisor/advisor/catalog"
	maturityx "github.com/digitaldept/business-advisor/advisor/maturity"
	profilex "github.com/digitaldept/business-advisor/advisor/profile"
)

const (
	ToolAnalyzeMaturity    = "analyze_digital_maturity"
	ToolRecommendSolutions = "recommend_it_solutions"
	ToolShowSolutions      = "show_all_it_solutions"
	ToolShowGrants         = "show_all_support_grants"
)

const noProfileMessage = "No company profile is attached to this conversation. " +
	"Ask the user to complete the digital maturity survey first."

// All returns the full tool surface bound to agent sessions.
func All() []einotool.BaseTool {
	return []einotool.BaseTool{
		analyzeMaturityTool{},
		recommendSolutionsTool{},
		showSolutionsTool{},
		showGrantsTool{},
	}
}

type analyzeMaturityTool struct{}

func (analyzeMaturityTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolAnalyzeMaturity,
		Desc: "Assess the company's digital maturity level from its survey profile.",
	}, nil
}

func (analyzeMaturityTool) InvokableRun(ctx context.Context, _ string, _ ...einotool.Option) (string, error) {
	p, ok := profilex.FromContext(ctx)
	if !ok {
		return noProfileMessage, nil
	}

	result, err := maturityx.ComputeMaturity(p)
	if err != nil {
		// Scoring failures are relayed to the model as an apology, not as a
		// transport error, so the conversation keeps going.
		return fmt.Sprintf("It seems there was a problem with assessing the digital maturity level. %v", err), nil
	}

	if len(result.MissingAttributes) > 0 {
		return fmt.Sprintf(
			"The following fields are required to compute digital maturity and are missing: %s. "+
				"Please fill them in and try again.",
			strings.Join(result.MissingAttributes, ", ")), nil
	}

	note := ""
	if len(result.UnknownAttributes) > 0 {
		note = fmt.Sprintf(" Note: fields %s are marked as 'unknown' and were skipped in the calculation.",
			strings.Join(result.UnknownAttributes, ", "))
	}

	return fmt.Sprintf("The company's digital maturity is %.2f%% (%s).%s",
		result.Percentage, maturityx.Band(result.Percentage), note), nil
}

type recommendSolutionsTool struct{}

func (recommendSolutionsTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolRecommendSolutions,
		Desc: "Recommend IT solutions based on the weak spots in the company's survey profile.",
	}, nil
}

func (recommendSolutionsTool) InvokableRun(ctx context.Context, _ string, _ ...einotool.Option) (string, error) {
	p, ok := profilex.FromContext(ctx)
	if !ok {
		return noProfileMessage, nil
	}

	solutions := maturityx.RecommendSolutions(p)
	if len(solutions) == 0 {
		return "No significant gaps found in the company profile; no additional IT solutions are required.", nil
	}
	return strings.Join(solutions, ", "), nil
}

type showSolutionsTool struct{}

func (showSolutionsTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolShowSolutions,
		Desc: "List detailed descriptions of every IT solution in the catalog.",
	}, nil
}

func (showSolutionsTool) InvokableRun(ctx context.Context, _ string, _ ...einotool.Option) (string, error) {
	return marshalCatalog(catalogx.Solutions())
}

type showGrantsTool struct{}

func (showGrantsTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolShowGrants,
		Desc: "List every available state support program and grant for SME digitalization.",
	}, nil
}

func (showGrantsTool) InvokableRun(ctx context.Context, _ string, _ ...einotool.Option) (string, error) {
	return marshalCatalog(catalogx.Grants())
}

func marshalCatalog(entries map[string]catalogx.Entry) (string, error) {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal catalog: %w", err)
	}
	return string(raw), nil
}
