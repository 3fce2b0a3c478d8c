// Package sandbox runs analysis requests in Gemini's hosted code-execution
// tool.
package sandbox

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/sandbox"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"google.golang.org/genai"
)

// generator is the subset of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models generator
}

var _ interfaces.Sandbox = &Client{}

// New connects to Gemini on Vertex AI.
func New(ctx context.Context, projectID, location string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client",
			goerr.TV(errs.ProjectIDKey, projectID),
			goerr.TV(errs.LocationKey, location),
			goerr.T(errs.TagExternal),
		)
	}
	return &Client{models: client.Models}, nil
}

func (x *Client) NewSession(ctx context.Context, cfg sandbox.SessionConfig) (interfaces.SandboxSession, error) {
	if cfg.Model == "" {
		return nil, goerr.New("sandbox model is required", goerr.T(errs.TagValidation))
	}

	config := &genai.GenerateContentConfig{
		Temperature: cfg.Temperature,
		Tools: []*genai.Tool{
			{CodeExecution: &genai.ToolCodeExecution{}},
		},
	}
	if cfg.Instruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: cfg.Instruction}},
		}
	}

	logging.From(ctx).Debug("new sandbox session", "model", cfg.Model, "optimize_data_file", cfg.OptimizeDataFile)

	return &session{
		models:   x.models,
		model:    cfg.Model,
		config:   config,
		stripRaw: cfg.OptimizeDataFile,
	}, nil
}

// setupHeader introduces the code of earlier executions. Every
// GenerateContent call starts a fresh interpreter, so that code has to run
// again before new code can use its variables.
const setupHeader = "Session setup: the interpreter was restarted. Run the following code from earlier executions first, skipping plotting, then continue with the request.\n```python\n"

// session replays its transcript on every request and asks the model to
// re-run the code that succeeded before, which rebuilds variables and loaded
// data in the new interpreter.
type session struct {
	models   generator
	model    string
	config   *genai.GenerateContentConfig
	stripRaw bool

	mu      sync.Mutex
	history []*genai.Content
	setup   []string
}

func (x *session) userContent(request string) *genai.Content {
	content := &genai.Content{Role: string(genai.RoleUser)}
	if len(x.setup) > 0 {
		content.Parts = append(content.Parts, &genai.Part{
			Text: setupHeader + strings.Join(x.setup, "\n\n") + "\n```",
		})
	}
	content.Parts = append(content.Parts, &genai.Part{Text: request})
	return content
}

func (x *session) Execute(ctx context.Context, request string) (*sandbox.Result, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	userContent := x.userContent(request)
	contents := append(append([]*genai.Content{}, x.history...), userContent)

	resp, err := x.models.GenerateContent(ctx, x.model, contents, x.config)
	if err != nil {
		return nil, goerr.Wrap(err, "code execution request failed",
			goerr.V("model", x.model),
			goerr.T(errs.TagSandboxError),
		)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, goerr.New("sandbox returned no candidates",
			goerr.V("model", x.model),
			goerr.T(errs.TagSandboxError),
		)
	}

	modelContent := resp.Candidates[0].Content
	// The transcript keeps the bare request; setup is rebuilt for each call.
	x.history = append(x.history, &genai.Content{
		Role:  userContent.Role,
		Parts: []*genai.Part{{Text: request}},
	}, x.compact(modelContent))
	x.setup = append(x.setup, succeededCode(modelContent)...)

	return toResult(modelContent), nil
}

// succeededCode returns code blocks whose execution result came back OK.
func succeededCode(content *genai.Content) []string {
	var (
		codes   []string
		pending string
	)
	for _, p := range content.Parts {
		switch {
		case p.ExecutableCode != nil:
			pending = p.ExecutableCode.Code
		case p.CodeExecutionResult != nil:
			if pending != "" && p.CodeExecutionResult.Outcome == genai.OutcomeOK {
				codes = append(codes, pending)
			}
			pending = ""
		}
	}
	return codes
}

// compact drops inline file bytes from the replayed transcript when data
// files are already held by the sandbox.
func (x *session) compact(content *genai.Content) *genai.Content {
	if !x.stripRaw {
		return content
	}
	kept := &genai.Content{Role: content.Role}
	for _, p := range content.Parts {
		if p.InlineData != nil {
			continue
		}
		kept.Parts = append(kept.Parts, p)
	}
	return kept
}

func toResult(content *genai.Content) *sandbox.Result {
	result := &sandbox.Result{}
	for _, p := range content.Parts {
		switch {
		case p.ExecutableCode != nil:
			result.Code = append(result.Code, sandbox.CodeBlock{
				Language: string(p.ExecutableCode.Language),
				Code:     p.ExecutableCode.Code,
			})
		case p.CodeExecutionResult != nil:
			result.Outputs = append(result.Outputs, sandbox.ExecutionOutput{
				Outcome: toOutcome(p.CodeExecutionResult.Outcome),
				Output:  p.CodeExecutionResult.Output,
			})
		case p.InlineData != nil:
			result.Files = append(result.Files, sandbox.File{
				MIMEType: p.InlineData.MIMEType,
				Data:     p.InlineData.Data,
			})
		case p.Text != "" && !p.Thought:
			result.Texts = append(result.Texts, p.Text)
		}
	}
	return result
}

func toOutcome(o genai.Outcome) sandbox.Outcome {
	switch o {
	case genai.OutcomeOK:
		return sandbox.OutcomeOK
	case genai.OutcomeFailed:
		return sandbox.OutcomeFailed
	case genai.OutcomeDeadlineExceeded:
		return sandbox.OutcomeDeadlineExceeded
	default:
		return sandbox.OutcomeUnknown
	}
}
