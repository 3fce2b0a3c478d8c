package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/secmon-lab/analytics-agent/pkg/service/notifier"
	"github.com/secmon-lab/analytics-agent/pkg/usecase"
)

var DotenvPath = dotenvPath

// SetDeployClients makes the deploy command use the given clients and
// returns a counter of how many times clients were requested.
func SetDeployClients(t *testing.T, buckets interfaces.BucketClient, engines interfaces.AgentEngineClient) *int {
	t.Helper()
	orig := newDeployClients
	var calls int
	newDeployClients = func(ctx context.Context, opts *deploy.Options) (interfaces.BucketClient, interfaces.AgentEngineClient, func(), error) {
		calls++
		return buckets, engines, func() {}, nil
	}
	t.Cleanup(func() { newDeployClients = orig })
	return &calls
}

// CaptureOutput redirects stdout and stderr of commands into buffers.
func CaptureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	origOut, origErr := stdout, stderr
	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = origOut, origErr })
	return &out, &errOut
}

type ChatFunc func(ctx context.Context, sessionID types.SessionID, message string) (*usecase.ChatResult, error)

func (f ChatFunc) Chat(ctx context.Context, sessionID types.SessionID, message string) (*usecase.ChatResult, error) {
	return f(ctx, sessionID, message)
}

func RunInteractive(ctx context.Context, chat ChatFunc, out io.Writer, sessionID types.SessionID, in io.Reader) error {
	console := notifier.NewConsole(out, io.Discard, notifier.WithNoColor())
	return runInteractive(ctx, chat, console, sessionID, in)
}

var AgentConfigs = agentConfigs
