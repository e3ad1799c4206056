package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an inference failure. Classification is best-effort
// string/status matching; anything unmatched becomes KindUnknown.
type ErrorKind string

const (
	KindMissingCredential       ErrorKind = "missing_credential"
	KindQuotaExceeded           ErrorKind = "quota_exceeded"
	KindContentFiltered         ErrorKind = "content_filtered"
	KindNetworkOrServiceFailure ErrorKind = "network_or_service_failure"
	KindUnknown                 ErrorKind = "unknown"
)

// InferenceError is the classified failure of a single gateway call.
type InferenceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference failed (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("inference failed (%s): %s", e.Kind, e.Message)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// KindOf extracts the classified kind from an error chain.
// Non-gateway errors report KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ie *InferenceError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}

// classifyHTTP maps an HTTP status + response body to an error kind.
func classifyHTTP(status int, body string) ErrorKind {
	lower := strings.ToLower(body)
	switch {
	case status == 429 || strings.Contains(lower, "resource_exhausted") || strings.Contains(lower, "quota"):
		return KindQuotaExceeded
	case strings.Contains(lower, "api_key_invalid") || strings.Contains(lower, "api key not valid") ||
		(status == 403 && strings.Contains(lower, "permission")):
		return KindMissingCredential
	case strings.Contains(lower, "safety") || strings.Contains(lower, "blocked") ||
		strings.Contains(lower, "prohibited_content"):
		return KindContentFiltered
	case status >= 500:
		return KindNetworkOrServiceFailure
	default:
		return KindUnknown
	}
}

// UserMessage renders a short, user-facing summary for a classified kind.
func UserMessage(kind ErrorKind) string {
	switch kind {
	case KindMissingCredential:
		return "No API key is configured. Add one in Settings before running research."
	case KindQuotaExceeded:
		return "The inference service quota is exhausted. Try again later."
	case KindContentFiltered:
		return "The inference service declined this request (content filtered)."
	case KindNetworkOrServiceFailure:
		return "Could not reach the inference service. Check your connection."
	default:
		return "The inference service returned an unexpected error."
	}
}
