package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDurationSource marks a source video whose probed duration is not
	// positive. No clip can be produced; the error must reach the caller.
	ErrDurationSource = errors.New("duration source error")

	// ErrEncoding marks an external-encoder failure. Callers substitute a
	// placeholder output and continue, so this is a soft failure.
	ErrEncoding = errors.New("encoding failure")

	// ErrIO marks a failed subtitle-script or output write.
	ErrIO = errors.New("io failure")

	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Soft reports whether the error represents degraded-but-usable output
// rather than a hard fault.
func Soft(err error) bool {
	return errors.Is(err, ErrEncoding)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
