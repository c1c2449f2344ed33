package estimates

import "errors"

var (
	// ErrPipeline wraps every failure of Service.Run.
	ErrPipeline = errors.New("estimation pipeline failed")
	// ErrMissingTasks means the LLM response has no top-level tasks array.
	ErrMissingTasks = errors.New("response missing 'tasks' key")
	// ErrSchemaMismatch means the tasks array does not have the expected shape.
	ErrSchemaMismatch = errors.New("response does not match estimate schema")
	// ErrInvalidJSON means no JSON object could be recovered from the response.
	ErrInvalidJSON = errors.New("response is not valid json")
)
