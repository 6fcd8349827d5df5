package utils

import (
	"io"

	"github.com/MrSnakeDoc/nextdir/internal/logger"
)

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer, e.g. response bodies.
func Close(c io.Closer) {
	_ = c.Close()
}

// CloseLogged closes c and reports the outcome under name.
func CloseLogged(c io.Closer, name string, log logger.Logger) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("component", name), logger.Error(err))
		return
	}
	log.Info("closed cleanly", logger.String("component", name))
}
