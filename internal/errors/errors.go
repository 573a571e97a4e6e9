package errors

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// PageError records the failure of a single catalog page. A run collects one
// per failed page and keeps going.
type PageError struct {
	Reference string
	Err       error
}

// Error implements the error interface
func (pe *PageError) Error() string {
	return fmt.Sprintf("page %s: %v", pe.Reference, pe.Err)
}

// Unwrap returns the underlying error.
func (pe *PageError) Unwrap() error {
	return pe.Err
}

// ErrorCollector collects per-page errors from concurrent generation tasks.
type ErrorCollector struct {
	errors []*PageError
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]*PageError, 0),
	}
}

// Add records err against the page reference. Nil errors are ignored.
func (ec *ErrorCollector) Add(reference string, err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, &PageError{Reference: reference, Err: err})
}

// GetErrors returns the collected errors ordered by page reference.
func (ec *ErrorCollector) GetErrors() []*PageError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]*PageError, len(ec.errors))
	copy(result, ec.errors)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Reference < result[j].Reference
	})
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors) > 0
}

// Len returns the number of collected errors.
func (ec *ErrorCollector) Len() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors)
}

// Join returns all collected errors as one error, or nil.
func (ec *ErrorCollector) Join() error {
	collected := ec.GetErrors()
	if len(collected) == 0 {
		return nil
	}
	errs := make([]error, len(collected))
	for i, pe := range collected {
		errs[i] = pe
	}
	return errors.Join(errs...)
}
