package step

// StepError wraps an error with the pipeline stage that produced it.
type StepError struct {
	Stage string
	Err   error
}

func (e *StepError) Error() string {
	return "step: " + e.Stage + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}
