package analytics

import (
	"strings"

	"github.com/secmon-lab/analytics-agent/pkg/domain/model/sandbox"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
)

// Output is the result of one request to the analytics agent.
type Output struct {
	Text      string
	Code      []sandbox.CodeBlock
	Results   []sandbox.ExecutionOutput
	Artifacts []types.ArtifactName
}

func newOutput(result *sandbox.Result) *Output {
	return &Output{
		Text:    strings.Join(result.Texts, "\n"),
		Code:    result.Code,
		Results: result.Outputs,
	}
}

// ToMap converts x into plain maps and slices so it can be stored as
// conversation state and returned as a tool result.
func (x *Output) ToMap() map[string]any {
	code := make([]any, 0, len(x.Code))
	for _, c := range x.Code {
		code = append(code, map[string]any{
			"language": c.Language,
			"code":     c.Code,
		})
	}

	results := make([]any, 0, len(x.Results))
	for _, r := range x.Results {
		results = append(results, map[string]any{
			"outcome": string(r.Outcome),
			"output":  r.Output,
		})
	}

	artifacts := make([]any, 0, len(x.Artifacts))
	for _, a := range x.Artifacts {
		artifacts = append(artifacts, a.String())
	}

	return map[string]any{
		"text":      x.Text,
		"code":      code,
		"results":   results,
		"artifacts": artifacts,
	}
}
