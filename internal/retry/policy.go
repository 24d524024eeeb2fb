package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"regexp"
	"syscall"
	"time"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// networkErrnos are OS-level connection failures worth retrying
var networkErrnos = []syscall.Errno{
	syscall.ECONNRESET,
	syscall.ECONNREFUSED,
	syscall.ECONNABORTED,
	syscall.ETIMEDOUT,
	syscall.EHOSTUNREACH,
	syscall.ENETUNREACH,
	syscall.EPIPE,
}

var (
	networkMessagePattern = regexp.MustCompile(`(?i)time[d]?\s?out|connection reset|socket hang ?up|econnreset|econnrefused|etimedout|eai_again|enotfound`)
	modelMessagePattern   = regexp.MustCompile(`(?i)quota|rate[\s_-]?limit|too many requests|resource[\s_-]?exhausted|time[d]?\s?out|overloaded`)
)

// retryableModelCodes are the gRPC codes the generative model returns for transient conditions
var retryableModelCodes = map[codes.Code]bool{
	codes.ResourceExhausted: true,
	codes.Aborted:           true,
	codes.Unavailable:       true,
}

// StatusCoder is implemented by errors that carry an HTTP status code
type StatusCoder interface {
	StatusCode() int
}

// ModelPolicy returns the options used for generative model calls.
// Callers may set OnRetry for logging.
func ModelPolicy() Options {
	return Options{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    4 * time.Second,
		Jitter:      250 * time.Millisecond,
		ShouldRetry: func(err error, _ int) bool { return IsRetryableModelError(err) },
	}
}

// IsNetworkError reports whether err is a transient connection-level failure
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	for _, errno := range networkErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return networkMessagePattern.MatchString(err.Error())
}

// IsRetryableHTTPStatus reports whether an HTTP status is transient (429 or 5xx)
func IsRetryableHTTPStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// HTTPStatus extracts an HTTP status code from err, if it carries one
func HTTPStatus(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.HTTPCode(); code > 0 {
			return code, true
		}
	}

	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode(), true
	}

	return 0, false
}

// IsRetryableModelError reports whether a generative model call failure is
// transient. Context cancellation is never retryable.
func IsRetryableModelError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if code, ok := grpcCode(err); ok && retryableModelCodes[code] {
		return true
	}

	if IsNetworkError(err) {
		return true
	}

	if code, ok := HTTPStatus(err); ok && IsRetryableHTTPStatus(code) {
		return true
	}

	return modelMessagePattern.MatchString(err.Error())
}

func grpcCode(err error) (codes.Code, bool) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if st := apiErr.GRPCStatus(); st != nil {
			return st.Code(), true
		}
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.OK {
		return st.Code(), true
	}
	return codes.OK, false
}
