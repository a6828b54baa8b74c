package sparkjob

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ConfigError is returned when job can't be submitted because of invalid configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sparkjob: invalid %s: %s", e.Field, e.Reason)
}

var errIsDir = xerrors.New("is a directory")
