package assist

import (
	"errors"
	"strings"

	"github.com/quillardco/sensei/pkg/storage"
)

// ValidationError reports every violated request field, not just the first.
// It is the only client-caused error in the taxonomy.
type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, ", ")
}

// UpstreamError indicates the LLM collaborator was unreachable or returned an
// error. There is no model output to classify, so this is always fatal.
type UpstreamError struct {
	Err error
}

func (e UpstreamError) Error() string {
	if e.Err == nil {
		return "llm upstream error"
	}

	return "llm upstream error: " + e.Err.Error()
}

func (e UpstreamError) Unwrap() error {
	return e.Err
}

// asUnavailable normalizes a store failure into storage.UnavailableError so
// callers see a uniform taxonomy regardless of driver.
func asUnavailable(op string, err error) error {
	var unavailable storage.UnavailableError
	if errors.As(err, &unavailable) {
		return err
	}

	return storage.UnavailableError{Op: op, Err: err}
}
