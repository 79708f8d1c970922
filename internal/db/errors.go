package db

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotProvisioned marks datastore errors caused by a missing backing
// table. Callers treat this class as "feature not enabled" rather than a
// hard failure and fall back to degraded behavior.
var ErrNotProvisioned = errors.New("backing table not provisioned")

// classifyError wraps SQLite "no such table" failures in ErrNotProvisioned
// so that services can branch with errors.Is instead of matching driver
// message strings themselves.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %v", ErrNotProvisioned, err)
	}
	return err
}
