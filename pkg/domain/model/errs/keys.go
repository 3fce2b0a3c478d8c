package errs

import "github.com/m-mizutani/goerr/v2"

var (
	SessionIDKey  = goerr.NewTypedKey[string]("session_id")
	ProjectIDKey  = goerr.NewTypedKey[string]("project_id")
	LocationKey   = goerr.NewTypedKey[string]("location")
	BucketKey     = goerr.NewTypedKey[string]("bucket")
	ObjectKey     = goerr.NewTypedKey[string]("object")
	ResourceKey   = goerr.NewTypedKey[string]("resource_name")
	ToolNameKey   = goerr.NewTypedKey[string]("tool_name")
	FilePathKey   = goerr.NewTypedKey[string]("file_path")
	HTTPStatusKey = goerr.NewTypedKey[int]("http_status")
	RepositoryKey = goerr.NewTypedKey[string]("repository")
)
