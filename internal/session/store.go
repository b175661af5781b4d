package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var errInvalidID = errors.New("invalid session id")

// Store persists one value per session id.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	NewID() string
}

// Codec turns a value into bytes and back for stores that keep bytes.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// JSONCodec encodes values with encoding/json.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

func newID() string {
	return uuid.NewString()
}

// validID rejects ids that could escape a key namespace or a directory.
func validID(id string) error {
	if id == "" || strings.ContainsAny(id, "/\\:\x00") || id == "." || id == ".." {
		return errInvalidID
	}
	return nil
}
