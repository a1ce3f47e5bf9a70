package utils

import (
	"io"

	"github.com/nstatus/nstatus/internal/logger"
)

// MustClose closes c and logs any error under the given name.
// Meant for defer statements where a close error is worth a line but not a failure.
func MustClose(c io.Closer, name string, log logger.Logger) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", name), logger.Error(err))
	}
}
