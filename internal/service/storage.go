package service

import (
	"context"
	"io"
)

// FileStorage abstracts where program artifacts are uploaded to.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}
