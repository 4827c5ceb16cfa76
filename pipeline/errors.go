package pipeline

import "fmt"

// Pipeline stage names, used in errors and trace records.
const (
	StageExtract = "extract"
	StageScore   = "score"
	StageExplain = "explain"
)

// PipelineError marks a whole-page analysis failure. Individual item failures
// degrade in place and never surface as a PipelineError; only an empty input
// or a cancelled context aborts the run.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at %s stage: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
