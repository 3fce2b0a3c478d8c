package sandbox

// SessionConfig configures one stateful code-execution session.
type SessionConfig struct {
	Model       string
	Instruction string
	Temperature *float32
	// OptimizeDataFile asks the sandbox to load attached data files once
	// and reuse them across executions of the session.
	OptimizeDataFile bool
}

// Outcome of a single code execution, as reported by the sandbox.
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeFailed           Outcome = "failed"
	OutcomeDeadlineExceeded Outcome = "deadline_exceeded"
	OutcomeUnknown          Outcome = "unknown"
)

type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type ExecutionOutput struct {
	Outcome Outcome `json:"outcome"`
	Output  string  `json:"output"`
}

// File is inline binary output such as a rendered plot.
type File struct {
	MIMEType string
	Data     []byte
}

// Result is everything one sandbox turn produced.
type Result struct {
	Texts   []string
	Code    []CodeBlock
	Outputs []ExecutionOutput
	Files   []File
}

// Failed reports whether any execution in the turn did not succeed.
func (x *Result) Failed() bool {
	for _, out := range x.Outputs {
		if out.Outcome != OutcomeOK {
			return true
		}
	}
	return false
}
