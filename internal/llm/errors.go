package llm

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// Class categorizes a provider failure for the orchestrator's outcome policy.
type Class int

// Failure classes. RateLimited and NotFound skip straight to the next
// configuration; Other triggers the degraded desperation retry first.
const (
	ClassOther Class = iota
	ClassRateLimited
	ClassNotFound
)

func (c Class) String() string {
	switch c {
	case ClassRateLimited:
		return "rate_limited"
	case ClassNotFound:
		return "not_found"
	default:
		return "other"
	}
}

// ProviderError wraps a provider failure with its classification so callers
// branch on a typed variant instead of matching message substrings.
type ProviderError struct {
	Class Class
	Model string
	Cause error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (%s, %s): %v", e.Model, e.Class, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Classify determines the failure class of a provider error. Structured
// googleapi errors are inspected first; message substrings remain as a
// fallback for providers that only surface strings.
func Classify(err error) Class {
	if err == nil {
		return ClassOther
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Class
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 429:
			return ClassRateLimited
		case 404:
			return ClassNotFound
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "quota"), strings.Contains(msg, "rate limit"):
		return ClassRateLimited
	case strings.Contains(msg, "404"), strings.Contains(msg, "not found"):
		return ClassNotFound
	default:
		return ClassOther
	}
}
