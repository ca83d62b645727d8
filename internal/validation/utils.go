package validation

import "github.com/google/uuid"

// IsValidUUID reports whether s is a well formed UUID.
func IsValidUUID(s string) bool {
	return uuid.Validate(s) == nil
}
