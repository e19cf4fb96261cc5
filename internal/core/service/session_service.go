// Package service contains the application services of the courier client:
// the session lifecycle and the delivery order operations.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
	"github.com/hunterxpress/courier-cli/internal/core/ports"
	"github.com/hunterxpress/courier-cli/internal/infrastructure/api"
)

var sessionKeys = []string{ports.KeyUser, ports.KeyAuthToken, ports.KeyUserType}

// SessionService owns the in-memory session and the three persisted session
// keys. All session-mutating operations serialize on one mutex, so two
// overlapping logins commit one after the other instead of interleaving
// their storage writes.
type SessionService struct {
	client *api.Client
	store  ports.CredentialStore
	log    zerolog.Logger

	mu      sync.Mutex
	session domain.Session
	loading bool
}

func NewSessionService(client *api.Client, store ports.CredentialStore, log zerolog.Logger) *SessionService {
	return &SessionService{client: client, store: store, log: log, loading: true}
}

// envelope is the backend's response shape for auth endpoints. The backend
// signals rejection either with a non-2xx status or with a 2xx carrying
// success=false, so both paths are handled.
type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *domain.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

// Restore loads the persisted session, if any. Called once at startup. It
// never fails the caller: on any storage problem the session stays anonymous.
// A stored token that is a JWT with an elapsed exp claim is treated as stale
// and the persisted keys are cleared.
func (s *SessionService) Restore(ctx context.Context) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	userJSON, err := s.store.Get(ctx, ports.KeyUser)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("session restore: reading user failed")
		}
		return s.session.Clone()
	}
	token, err := s.store.Get(ctx, ports.KeyAuthToken)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("session restore: reading token failed")
		}
		return s.session.Clone()
	}

	var user domain.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		s.log.Warn().Err(err).Msg("session restore: stored user is unreadable, clearing")
		s.clearStorage(ctx)
		return s.session.Clone()
	}

	if tokenExpired(token) {
		s.log.Info().Str("user_id", user.ID).Msg("stored token expired, clearing session")
		s.clearStorage(ctx)
		return s.session.Clone()
	}

	userType, err := s.store.Get(ctx, ports.KeyUserType)
	if err != nil {
		userType = user.Role
	}

	s.session = domain.Session{User: &user, Token: token, UserType: userType}
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("session restored")
	return s.session.Clone()
}

// Login authenticates with an email address or phone number. On success the
// user, token, and role are committed to storage and memory as one logical
// unit: a storage failure rolls the keys back to their pre-call values and
// fails the call with the in-memory session untouched.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (*ports.AuthOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	defer func() { s.loading = false }()

	body := map[string]string{"emailOrPhone": identifier, "password": password}
	resp, err := s.client.Post(ctx, "/user/login", body)
	if err != nil {
		if outcome := rejectionOutcome(err); outcome != nil {
			return outcome, nil
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	var data envelope
	if err := resp.DecodeJSON(&data); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !data.Success {
		return &ports.AuthOutcome{OK: false, Message: orDefault(data.Message, "login failed")}, nil
	}
	if data.User == nil || data.Token == "" {
		return nil, fmt.Errorf("login: %w: response missing user or token", api.ErrMalformedResponse)
	}

	// The role on the user record is the canonical source of the persisted
	// user type.
	if err := s.commitCredentials(ctx, data.User, data.Token); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.session = domain.Session{User: data.User, Token: data.Token, UserType: data.User.Role}
	s.log.Info().Str("user_id", data.User.ID).Str("role", data.User.Role).Msg("logged in")

	return &ports.AuthOutcome{OK: true, User: data.User, Token: data.Token}, nil
}

// SignUp registers a new account. Registration does not create a session:
// only the chosen role is persisted, so the subsequent confirmation and login
// flow starts from an anonymous state.
func (s *SessionService) SignUp(ctx context.Context, input ports.SignUpInput) (*ports.AuthOutcome, error) {
	if !domain.ValidRole(input.Role) {
		return nil, fmt.Errorf("sign up: %w: %q", domain.ErrInvalidRole, input.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	defer func() { s.loading = false }()

	resp, err := s.client.Post(ctx, "/user/register", input)
	if err != nil {
		if outcome := rejectionOutcome(err); outcome != nil {
			return outcome, nil
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}

	var data envelope
	if err := resp.DecodeJSON(&data); err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if !data.Success {
		return &ports.AuthOutcome{OK: false, Message: orDefault(data.Message, "sign up failed")}, nil
	}

	if err := s.store.Set(ctx, ports.KeyUserType, input.Role); err != nil {
		return nil, fmt.Errorf("sign up: persist role: %w", err)
	}
	s.session.UserType = input.Role
	s.log.Info().Str("role", input.Role).Msg("account registered")

	return &ports.AuthOutcome{OK: true, Message: data.Message}, nil
}

// Logout removes the persisted keys and clears the in-memory session.
// Calling it while already anonymous is a no-op.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range sessionKeys {
		if err := s.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}
	s.session = domain.Session{}
	s.log.Info().Msg("logged out")
	return nil
}

// SendOTP triggers a one-time password send to phone. It does not touch the
// session or the store.
func (s *SessionService) SendOTP(ctx context.Context, phone string) (*ports.AuthOutcome, error) {
	resp, err := s.client.Post(ctx, "/send-otp", map[string]string{"phone": phone})
	if err != nil {
		if outcome := rejectionOutcome(err); outcome != nil {
			return outcome, nil
		}
		return nil, fmt.Errorf("send otp: %w", err)
	}

	var data envelope
	if err := resp.DecodeJSON(&data); err != nil {
		return nil, fmt.Errorf("send otp: %w", err)
	}
	if !data.Success {
		return &ports.AuthOutcome{OK: false, Message: orDefault(data.Message, "could not send code")}, nil
	}
	return &ports.AuthOutcome{OK: true, Message: data.Message}, nil
}

// Session returns a copy of the current session.
func (s *SessionService) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone()
}

// Loading reports whether a session-affecting operation is in flight. The UI
// layer uses it to disable its triggers.
func (s *SessionService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// commitCredentials writes the three session keys as one logical commit:
// previous values are snapshotted first and restored if any write fails.
func (s *SessionService) commitCredentials(ctx context.Context, user *domain.User, token string) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	prev := make(map[string]*string, len(sessionKeys))
	for _, key := range sessionKeys {
		v, err := s.store.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, ports.ErrKeyNotFound) {
				return fmt.Errorf("snapshot key %q: %w", key, err)
			}
			prev[key] = nil
			continue
		}
		prev[key] = &v
	}

	writes := []struct{ key, value string }{
		{ports.KeyUser, string(userJSON)},
		{ports.KeyAuthToken, token},
		{ports.KeyUserType, user.Role},
	}
	for _, w := range writes {
		if err := s.store.Set(ctx, w.key, w.value); err != nil {
			s.rollback(ctx, prev)
			return fmt.Errorf("persist key %q: %w", w.key, err)
		}
	}
	return nil
}

// rollback restores the snapshotted key values, best effort.
func (s *SessionService) rollback(ctx context.Context, prev map[string]*string) {
	for key, value := range prev {
		var err error
		if value == nil {
			err = s.store.Remove(ctx, key)
		} else {
			err = s.store.Set(ctx, key, *value)
		}
		if err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("credential rollback failed")
		}
	}
}

func (s *SessionService) clearStorage(ctx context.Context) {
	for _, key := range sessionKeys {
		if err := s.store.Remove(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("clearing stale session key failed")
		}
	}
}

// rejectionOutcome converts a server-side rejection (non-2xx with an error
// payload) into an AuthOutcome. Transport and decode failures return nil so
// the caller propagates them as errors.
func rejectionOutcome(err error) *ports.AuthOutcome {
	var he *api.HTTPError
	if errors.As(err, &he) {
		return &ports.AuthOutcome{OK: false, Message: orDefault(he.Message, "request rejected")}
	}
	return nil
}

// tokenExpired reports whether token is a JWT whose exp claim has elapsed.
// Opaque (non-JWT) tokens are assumed valid; the backend is the authority.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

var _ ports.SessionService = (*SessionService)(nil)
