package boxapi

import (
	"context"
	"errors"
	"fmt"
)

// Kind is a closed classification of provider faults. Callers branch on the
// kind instead of inspecting error message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindNameCollision
	KindTimeout
	KindTransient
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindNameCollision:
		return "name_collision"
	case KindTimeout:
		return "timeout"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a provider fault mapped to a Kind at the adapter boundary.
type Error struct {
	Kind       Kind
	StatusCode int
	Code       string // provider error code, e.g. item_name_in_use
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("box: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("box: %s (status %d)", e.Message, e.StatusCode)
}

// KindOf classifies any error returned by this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}

// IsNotFound reports whether err is a provider not-found condition.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsNameCollision reports whether err is a name-already-in-use condition.
func IsNameCollision(err error) bool { return KindOf(err) == KindNameCollision }

func classify(status int, code string) Kind {
	switch code {
	case "item_name_in_use", "conflict":
		return KindNameCollision
	case "not_found", "trashed", "not_trashed":
		return KindNotFound
	case "rate_limit_exceeded":
		return KindTransient
	}
	switch {
	case status == 404:
		return KindNotFound
	case status == 409:
		return KindNameCollision
	case status == 429 || status >= 500:
		return KindTransient
	case status >= 400:
		return KindFatal
	}
	return KindUnknown
}
