package tools

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
)

var closeErrs = []error{io.EOF, net.ErrClosed, io.ErrClosedPipe, os.ErrClosed, syscall.EPIPE, syscall.ECONNRESET, context.Canceled, context.DeadlineExceeded, redis.ErrClosed}

// IsCloseOrCanceled reports whether err only says that the connection went away
// because we closed it or the context ended.
func IsCloseOrCanceled(err error) bool {
	if err == nil {
		return false
	}
	for _, e := range closeErrs {
		if errors.Is(err, e) {
			return true
		}
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}
