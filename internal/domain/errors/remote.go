package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const maxDetailsLength = 2048

// RemoteError is a non-2xx response from the pricing service. It matches
// exactly one taxonomy error through errors.Is, chosen by its status code.
type RemoteError struct {
	StatusCode int
	Method     string
	Path       string
	Body       []byte

	kind *BaseError
}

// NewRemoteError classifies a failed response.
func NewRemoteError(method, path string, statusCode int, body []byte) *RemoteError {
	return &RemoteError{
		StatusCode: statusCode,
		Method:     method,
		Path:       path,
		Body:       body,
		kind:       classifyStatus(statusCode),
	}
}

func classifyStatus(statusCode int) *BaseError {
	switch {
	case statusCode == http.StatusUnauthorized:
		return ErrAuthorizationExpired
	case statusCode == http.StatusNotFound:
		return ErrNotFound
	case statusCode >= 400 && statusCode < 500:
		return ErrValidationRejected
	default:
		return ErrServerFault
	}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is matches the taxonomy error for the status code.
func (e *RemoteError) Is(target error) bool {
	return target == e.kind
}

// HTTPCode keeps client errors as-is and reports server faults as a bad gateway.
func (e *RemoteError) HTTPCode() int {
	if e.kind == ErrServerFault {
		return http.StatusBadGateway
	}

	return e.StatusCode
}

func (e *RemoteError) ErrorCode() string {
	return e.kind.ErrorCode()
}

// Message prefers the backend's own "error" or "detail" text.
func (e *RemoteError) Message() string {
	if msg := e.RemoteMessage(); msg != "" {
		return msg
	}

	return e.kind.Message()
}

// Details returns the raw body for rejected input, where it usually lists field errors.
func (e *RemoteError) Details() string {
	if e.kind != ErrValidationRejected {
		return ""
	}

	details := strings.TrimSpace(string(e.Body))
	if len(details) > maxDetailsLength {
		details = details[:maxDetailsLength]
	}

	return details
}

// RemoteMessage extracts {"error": "..."} or {"detail": "..."} from the body.
func (e *RemoteError) RemoteMessage() string {
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}

	return body.Detail
}

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is matches ErrNetworkUnreachable.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetworkUnreachable
}

func (e *NetworkError) HTTPCode() int {
	return ErrNetworkUnreachable.HTTPCode()
}

func (e *NetworkError) ErrorCode() string {
	return ErrNetworkUnreachable.ErrorCode()
}

func (e *NetworkError) Message() string {
	return ErrNetworkUnreachable.Message()
}

func (e *NetworkError) Details() string {
	return ""
}
