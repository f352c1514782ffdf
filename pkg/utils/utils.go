package utils

import (
	"context"
	"log"
	"runtime/debug"

	"memecoin-radar/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so one bad task cannot
// take the process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still live, logging when it
// is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	if err := ctx.Err(); err != nil {
		log.Info("Stopping work, context is done", logger.ErrorField(err))
		return false
	}
	return true
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
