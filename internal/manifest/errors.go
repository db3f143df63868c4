package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// LoadError reports a manifest that could not be read, parsed or validated.
type LoadError struct {
	Message string // short, user facing
	Detail  string // technical details (decoder, schema or Lua error)
	Err     error
}

func (e *LoadError) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FormatError formats a manifest error for display. The full detail, Lua
// stack traceback included, is only shown in verbose mode.
func FormatError(err error, verbose bool) string {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return err.Error()
	}
	if verbose {
		return loadErr.Error()
	}
	detail := loadErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	if i := strings.IndexByte(detail, '\n'); i > 0 {
		detail = strings.TrimSpace(detail[:i])
	}
	if detail == "" {
		return loadErr.Message
	}
	return fmt.Sprintf("%s: %s", loadErr.Message, detail)
}
