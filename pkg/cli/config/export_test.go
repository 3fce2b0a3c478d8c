package config

var (
	ClaudeOptions = claudeOptions
	GeminiOptions = geminiOptions
)
