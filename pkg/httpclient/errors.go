package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/wishlist/pkg/errors"
)

const maxErrorBody = 1 << 20

// errorEnvelope mirrors the error half of httputil.Response.
type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx response and converts it into
// an *apperrors.AppError. When the body carries the standard error envelope its
// code and message are kept verbatim; otherwise the raw body (or the status
// text) becomes the message. The body is consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	code := codeForStatus(resp.StatusCode)
	message := strings.TrimSpace(string(body))

	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error != nil {
		if env.Error.Code != "" {
			code = env.Error.Code
		}
		message = strings.TrimSpace(env.Error.Message)
	}
	if message == "" {
		message = fmt.Sprintf("%s returned %d %s", serviceName, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return &apperrors.AppError{
		Code:    code,
		Message: message,
		Status:  resp.StatusCode,
		Err:     sentinelForStatus(resp.StatusCode),
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "UNAUTHORIZED"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "HTTP_" + fmt.Sprint(status)
	}
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidInput
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return apperrors.ErrUnauthorized
	case status == http.StatusConflict:
		return apperrors.ErrConflict
	case status == http.StatusServiceUnavailable:
		return apperrors.ErrServiceUnavail
	case status >= 500:
		return apperrors.ErrInternal
	default:
		return nil
	}
}

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
