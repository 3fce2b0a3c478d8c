package sandbox_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/adapter/sandbox"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	model "github.com/secmon-lab/analytics-agent/pkg/domain/model/sandbox"
	"github.com/secmon-lab/analytics-agent/pkg/utils/test"
	"google.golang.org/genai"
)

func plotResponse() *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role: string(genai.RoleModel),
					Parts: []*genai.Part{
						{ExecutableCode: &genai.ExecutableCode{Language: genai.LanguagePython, Code: "df.plot()"}},
						{CodeExecutionResult: &genai.CodeExecutionResult{Outcome: genai.OutcomeOK, Output: "ok"}},
						{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("png")}},
						{Text: "Here is the plot."},
					},
				},
			},
		},
	}
}

func TestSessionExecute(t *testing.T) {
	ctx := context.Background()
	temp := float32(0.1)

	var seen [][]*genai.Content
	var seenConfig *genai.GenerateContentConfig
	client := sandbox.NewWithGenerator(func(ctx context.Context, m string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gt.Equal(t, m, "gemini-2.5-flash")
		seen = append(seen, contents)
		seenConfig = config
		return plotResponse(), nil
	})

	ssn, err := client.NewSession(ctx, model.SessionConfig{
		Model:            "gemini-2.5-flash",
		Instruction:      "analyze",
		Temperature:      &temp,
		OptimizeDataFile: true,
	})
	gt.NoError(t, err).Required()

	result, err := ssn.Execute(ctx, "plot sales")
	gt.NoError(t, err).Required()
	gt.A(t, result.Code).Length(1)
	gt.Equal(t, result.Code[0].Code, "df.plot()")
	gt.Equal(t, result.Outputs[0].Outcome, model.OutcomeOK)
	gt.A(t, result.Files).Length(1)
	gt.Equal(t, result.Files[0].MIMEType, "image/png")
	gt.A(t, result.Texts).Equal([]string{"Here is the plot."})
	gt.False(t, result.Failed())

	gt.NotNil(t, seenConfig.Tools[0].CodeExecution)
	gt.Equal(t, seenConfig.SystemInstruction.Parts[0].Text, "analyze")

	t.Run("later requests replay the transcript", func(t *testing.T) {
		_, err := ssn.Execute(ctx, "now by region")
		gt.NoError(t, err).Required()

		gt.A(t, seen).Length(2)
		gt.A(t, seen[1]).Length(3)
		gt.A(t, seen[1][0].Parts).Length(1)
		gt.Equal(t, seen[1][0].Parts[0].Text, "plot sales")
		for _, p := range seen[1][1].Parts {
			gt.Nil(t, p.InlineData)
		}

		req := seen[1][2]
		gt.A(t, req.Parts).Length(2)
		gt.S(t, req.Parts[0].Text).Contains("Session setup").Contains("df.plot()")
		gt.Equal(t, req.Parts[1].Text, "now by region")
	})
}

func TestSessionSetupCode(t *testing.T) {
	ctx := context.Background()

	responses := []*genai.GenerateContentResponse{
		{Candidates: []*genai.Candidate{{Content: &genai.Content{
			Role: string(genai.RoleModel),
			Parts: []*genai.Part{
				{ExecutableCode: &genai.ExecutableCode{Language: genai.LanguagePython, Code: "import pandas as pd\ndf = pd.read_csv('sales.csv')"}},
				{CodeExecutionResult: &genai.CodeExecutionResult{Outcome: genai.OutcomeOK, Output: ""}},
				{ExecutableCode: &genai.ExecutableCode{Language: genai.LanguagePython, Code: "df.nope()"}},
				{CodeExecutionResult: &genai.CodeExecutionResult{Outcome: genai.OutcomeFailed, Output: "AttributeError"}},
			},
		}}}},
		plotResponse(),
		plotResponse(),
	}

	var seen [][]*genai.Content
	client := sandbox.NewWithGenerator(func(ctx context.Context, m string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		seen = append(seen, contents)
		return responses[len(seen)-1], nil
	})
	ssn, err := client.NewSession(ctx, model.SessionConfig{Model: "m"})
	gt.NoError(t, err).Required()

	for _, req := range []string{"load sales.csv", "describe df", "plot df"} {
		_, err := ssn.Execute(ctx, req)
		gt.NoError(t, err).Required()
	}

	gt.A(t, seen[0][0].Parts).Length(1)

	second := seen[1][len(seen[1])-1].Parts[0].Text
	gt.S(t, second).Contains("df = pd.read_csv('sales.csv')").NotContains("df.nope()")

	third := seen[2][len(seen[2])-1].Parts[0].Text
	gt.S(t, third).Contains("df = pd.read_csv('sales.csv')").Contains("df.plot()")
}

func TestSessionExecuteErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("API failure is a sandbox error", func(t *testing.T) {
		client := sandbox.NewWithGenerator(func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, errors.New("quota exceeded")
		})
		ssn, err := client.NewSession(ctx, model.SessionConfig{Model: "m"})
		gt.NoError(t, err).Required()

		_, err = ssn.Execute(ctx, "x")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagSandboxError))
	})

	t.Run("empty candidates", func(t *testing.T) {
		client := sandbox.NewWithGenerator(func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		})
		ssn, err := client.NewSession(ctx, model.SessionConfig{Model: "m"})
		gt.NoError(t, err).Required()

		_, err = ssn.Execute(ctx, "x")
		gt.Error(t, err)
	})

	t.Run("model is required", func(t *testing.T) {
		client := sandbox.NewWithGenerator(nil)
		_, err := client.NewSession(ctx, model.SessionConfig{})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagValidation))
	})
}

func TestClientLive(t *testing.T) {
	projectID, location := test.CloudVars(t)

	ctx := context.Background()
	client, err := sandbox.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	ssn, err := client.NewSession(ctx, model.SessionConfig{Model: "gemini-2.5-flash"})
	gt.NoError(t, err).Required()

	result, err := ssn.Execute(ctx, "Compute the sum of integers from 1 to 100 with Python and print it.")
	gt.NoError(t, err).Required()
	gt.True(t, len(result.Code) > 0)
}
