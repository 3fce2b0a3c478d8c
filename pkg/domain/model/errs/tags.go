package errs

import "github.com/m-mizutani/goerr/v2"

var (
	TagNotFound   = goerr.NewTag("not_found")  // 404
	TagValidation = goerr.NewTag("validation") // 400
	TagForbidden  = goerr.NewTag("forbidden")  // 403
	TagConflict   = goerr.NewTag("conflict")   // 409

	TagExternal = goerr.NewTag("external")
	TagInternal = goerr.NewTag("internal")
	TagDatabase = goerr.NewTag("database")

	TagSandboxError = goerr.NewTag("sandbox_error")
	TagLLMError     = goerr.NewTag("llm_error")
)
