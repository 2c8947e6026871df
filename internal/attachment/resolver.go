// Package attachment uploads task proof images and returns durable URLs.
package attachment

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var ErrEmpty = errors.New("attachment is empty")

// Resolver stores an attachment and returns the URL it will be served from.
type Resolver interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// IsImage sniffs the leading bytes of data.
func IsImage(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}
