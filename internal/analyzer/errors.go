package analyzer

// InputError is a problem with the caller's image. Its message is safe to return to clients.
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}
