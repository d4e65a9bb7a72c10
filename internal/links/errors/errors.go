// Package errors defines the typed error taxonomy of the URL cleaning engine.
//
// Every runtime failure of a clean operation is a *CleanError carrying a
// stable code. Three of the codes (CodeNoQuery, CodeNoMatchRule,
// CodeNothingToClean) are benign: they mean "this URL needed no cleaning",
// and callers are expected to keep the original URL and move on.
package errors

import (
	"errors"
	"fmt"
)

const (
	CodeURLParse       = "URL_PARSE_ERROR"
	CodeNoDomain       = "NO_DOMAIN"
	CodeNoQuery        = "NO_QUERY"
	CodeRedirectFail   = "REDIRECT_FAILED"
	CodeNoMatchRule    = "NO_MATCH_RULE"
	CodeNothingToClean = "NOTHING_TO_CLEAN"
	CodeHookFailed     = "HOOK_FAILED"
)

// CleanError is the engine's runtime error type.
type CleanError struct {
	Code    string
	Message string
	Hook    string // set only for CodeHookFailed
	Err     error
}

func (e *CleanError) Error() string {
	switch {
	case e.Hook != "" && e.Err != nil:
		return fmt.Sprintf("%s: hook %q: %s (caused by: %v)", e.Code, e.Hook, e.Message, e.Err)
	case e.Hook != "":
		return fmt.Sprintf("%s: hook %q: %s", e.Code, e.Hook, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *CleanError) Unwrap() error {
	return e.Err
}

func URLParse(raw string, err error) *CleanError {
	return &CleanError{
		Code:    CodeURLParse,
		Message: fmt.Sprintf("cannot parse %q as a URL", raw),
		Err:     err,
	}
}

func NoDomain(raw string) *CleanError {
	return &CleanError{
		Code:    CodeNoDomain,
		Message: fmt.Sprintf("url %q has no host component", raw),
	}
}

func NoQuery(domain string) *CleanError {
	return &CleanError{
		Code:    CodeNoQuery,
		Message: fmt.Sprintf("url on %q has no query to clean", domain),
	}
}

func RedirectFail(rawURL string, err error) *CleanError {
	return &CleanError{
		Code:    CodeRedirectFail,
		Message: fmt.Sprintf("redirect resolution failed for %q", rawURL),
		Err:     err,
	}
}

func NoMatchRule(domain string) *CleanError {
	return &CleanError{
		Code:    CodeNoMatchRule,
		Message: fmt.Sprintf("no applicable rule for domain %q", domain),
	}
}

func NothingToClean(domain string) *CleanError {
	return &CleanError{
		Code:    CodeNothingToClean,
		Message: fmt.Sprintf("url on %q is already clean", domain),
	}
}

func HookFailed(hook, message string) *CleanError {
	return &CleanError{
		Code:    CodeHookFailed,
		Message: message,
		Hook:    hook,
	}
}

func HookFailedErr(hook string, err error) *CleanError {
	return &CleanError{
		Code:    CodeHookFailed,
		Message: err.Error(),
		Hook:    hook,
		Err:     err,
	}
}

// CodeOf returns the clean-error code of err, or "" when err is not a
// CleanError.
func CodeOf(err error) string {
	var ce *CleanError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsBenign reports whether err is a no-op outcome rather than an incident.
// Callers should leave the original URL untouched for these.
func IsBenign(err error) bool {
	switch CodeOf(err) {
	case CodeNoQuery, CodeNoMatchRule, CodeNothingToClean:
		return true
	}
	return false
}

func AsCleanError(err error) (*CleanError, bool) {
	var ce *CleanError
	ok := errors.As(err, &ce)
	return ce, ok
}
