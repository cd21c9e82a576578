package fetch

import "fmt"

// FetchError wraps any per-URL retrieval failure: network error, timeout,
// or non-2xx status. Callers treat it as a per-URL failure, never fatal.
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
