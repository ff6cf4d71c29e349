package storage

import (
	"errors"
	"io"
)

// ErrInvalidKey is returned for empty keys and keys that escape the store.
var ErrInvalidKey = errors.New("invalid blob key")

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}
