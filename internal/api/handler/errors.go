package handler

import "fmt"

// Failure annotates an error with the user-facing summary of the operation
// that failed ("Error al registrar usuario"). The central error handler
// renders Summary for upstream and internal failures.
type Failure struct {
	Summary string
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Summary, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(summary string, err error) error {
	return &Failure{Summary: summary, Err: err}
}
