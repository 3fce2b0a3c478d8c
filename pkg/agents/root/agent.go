package root

import (
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
)

// New builds the root dispatcher agent. Which tool to call, and when to
// stop, is decided by the model.
func New(llmClient gollem.LLMClient, cfg Config, toolSets ...gollem.ToolSet) *gollem.Agent {
	loopLimit := cfg.LoopLimit
	if loopLimit <= 0 {
		loopLimit = defaultLoopLimit
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	options := []gollem.Option{
		gollem.WithSystemPrompt(cfg.Instruction),
		gollem.WithToolSets(toolSets...),
		gollem.WithLoopLimit(loopLimit),
		gollem.WithLogger(logger),
		gollem.WithResponseMode(gollem.ResponseModeBlocking),
	}
	options = append(options, cfg.Options...)

	return gollem.New(llmClient, options...)
}
