package types

// ModelID identifies a hosted model, e.g. "gemini-2.5-flash".
type ModelID string

func (x ModelID) String() string {
	return string(x)
}

const DefaultModel ModelID = "gemini-2.5-flash"
