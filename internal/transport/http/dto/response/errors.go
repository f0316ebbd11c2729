package response

import "net/http"

const (
	codeInvalidRequest = "invalid_request"
	codeAuthFailed     = "authentication_failed"
	codeUnauthorized   = "unauthorized"
	codeForbidden      = "forbidden"
	codeTooManyLogins  = "too_many_attempts"
)

// InvalidRequest is returned when a body, path or query value cannot be parsed.
func InvalidRequest(details string) ErrorResponse {
	if details == "" {
		details = "Invalid request format"
	}
	return ErrorResponseWithDetails(codeInvalidRequest, details)
}

func AuthenticationFailed(details string) ErrorResponse {
	return ErrorResponseWithDetails(codeAuthFailed, details)
}

func Unauthorized(details string) ErrorResponse {
	return ErrorResponseWithDetails(codeUnauthorized, details)
}

func Forbidden(details string) ErrorResponse {
	return ErrorResponseWithDetails(codeForbidden, details)
}

func TooManyAttempts() ErrorResponse {
	return ErrorResponseWithDetails(codeTooManyLogins, http.StatusText(http.StatusTooManyRequests))
}
