package core

import "fmt"

// NotFoundError reports that no artifacts of a requested logical kind exist
// anywhere in the store, even after synonym resolution and the context
// fallback. Fatal for a run.
type NotFoundError struct {
	Kind    string
	Context string
}

func (e *NotFoundError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("no %s artifacts in metadata store (context %q)", e.Kind, e.Context)
	}
	return fmt.Sprintf("no %s artifacts in metadata store", e.Kind)
}

// ContextNotFoundError reports that a context filter named a context that
// does not exist. Fatal for a run.
type ContextNotFoundError struct {
	Name string
}

func (e *ContextNotFoundError) Error() string {
	return fmt.Sprintf("no context named %q", e.Name)
}

// StoreCallError wraps a failed store adapter call. The run aborts; no
// partial document set is emitted.
type StoreCallError struct {
	Op  string
	Err error
}

func (e *StoreCallError) Error() string {
	return fmt.Sprintf("store call %s: %v", e.Op, e.Err)
}

func (e *StoreCallError) Unwrap() error { return e.Err }
