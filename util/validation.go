//nolint:revive
package util

import (
	"fmt"
	"strings"
)

// HasDuplicateAddresses checks if the provided addresses contain any duplicates.
// Addresses are compared case-insensitively.
// Returns (true, duplicateAddress) if a duplicate is found, (false, "") otherwise.
func HasDuplicateAddresses(addresses []string) (bool, string) {
	seen := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		key := strings.ToLower(addr)
		if _, exists := seen[key]; exists {
			return true, addr
		}
		seen[key] = struct{}{}
	}

	return false, ""
}

// ValidateNoDuplicateAddresses returns an error if duplicate addresses are found.
// Announcing for the same account twice in one run would submit its operations twice.
func ValidateNoDuplicateAddresses(addresses []string) error {
	if hasDup, dup := HasDuplicateAddresses(addresses); hasDup {
		return fmt.Errorf("duplicate account address detected: %s", dup)
	}

	return nil
}
