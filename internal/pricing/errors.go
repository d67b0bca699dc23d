package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// NotReadyError rejects a calculation on an incomplete service set before
// any tier evaluation begins, instead of silently computing with zero or
// garbage quantities.
type NotReadyError struct {
	Missing []string
}

func (e *NotReadyError) Error() string {
	if len(e.Missing) == 0 {
		return "pricing: service set not ready for pricing"
	}
	return fmt.Sprintf("pricing: service set not ready for pricing: missing %s",
		strings.Join(e.Missing, ", "))
}

// IsNotReady reports whether the error chain contains a NotReadyError.
func IsNotReady(err error) bool {
	var nr *NotReadyError
	return errors.As(err, &nr)
}
