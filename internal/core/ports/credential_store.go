package ports

import (
	"context"
	"errors"
)

// Keys under which session fields are persisted. The three session keys form
// one resource group owned exclusively by the session service; KeyTheme is an
// independent UI preference.
const (
	KeyUser      = "user"
	KeyAuthToken = "authToken"
	KeyUserType  = "userType"
	KeyTheme     = "theme"
)

// ErrKeyNotFound is returned by Get for a key that has never been set or has
// been removed. It is a normal outcome, not an I/O failure.
var ErrKeyNotFound = errors.New("credential key not found")

// CredentialStore is durable device-local key-value persistence for session
// fields. Completion of Set means the value is readable by subsequent Get
// calls; no ordering is guaranteed across different keys.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
