package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hunterxpress/courier-cli/internal/core/ports"
)

// authTransport injects the stored bearer token into every outgoing request.
// The credential read completes before the request is transmitted, so a token
// present in the store at call time is never missing from the wire. The
// transport only ever reads the store.
type authTransport struct {
	store ports.CredentialStore
	base  http.RoundTripper
}

func newAuthTransport(store ports.CredentialStore, base http.RoundTripper) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{store: store, base: base}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.store.Get(req.Context(), ports.KeyAuthToken)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			return nil, fmt.Errorf("read auth token: %w", err)
		}
		// Anonymous call: headers stay exactly as the caller supplied them.
		return t.base.RoundTrip(req)
	}

	// Per RoundTripper contract the request must not be mutated in place.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	clone.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(clone)
}
