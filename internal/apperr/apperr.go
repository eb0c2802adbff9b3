package apperr

import "errors"

var (
	// ErrLocationUnavailable is returned when no location fix can be obtained.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrNetwork covers timeouts, non-2xx responses and connection failures.
	ErrNetwork = errors.New("network error")
	// ErrMalformedPayload is returned when a provider response lacks expected fields.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrExtraction is returned when no JSON object is found in completion text.
	ErrExtraction = errors.New("no json object in completion")
	// ErrValidation is returned when completion JSON violates the insight schema.
	ErrValidation = errors.New("completion failed validation")
)

// Kind returns a short label for err, suitable for log fields and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrLocationUnavailable):
		return "location_unavailable"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "unknown"
	}
}
