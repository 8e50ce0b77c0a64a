package access

import (
	"errors"
	"fmt"
)

var ErrPermissionDenied = errors.New("permission denied")

// DeniedError is the structured form of ErrPermissionDenied.
type DeniedError struct {
	Role       string
	Capability Capability
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("permission denied: role %q lacks %q", e.Role, e.Capability)
}

func (e *DeniedError) Is(target error) bool { return target == ErrPermissionDenied }

// Require is the entry check every role-gated operation starts with.
func Require(role string, c Capability) error {
	if Allows(role, c) {
		return nil
	}
	return &DeniedError{Role: role, Capability: c}
}
