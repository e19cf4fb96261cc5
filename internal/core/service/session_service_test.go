package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
	"github.com/hunterxpress/courier-cli/internal/core/ports"
	"github.com/hunterxpress/courier-cli/internal/infrastructure/api"
	"github.com/hunterxpress/courier-cli/internal/stubapi"
)

// testStore is an in-memory CredentialStore with injectable per-key write
// failures.
type testStore struct {
	mu      sync.Mutex
	values  map[string]string
	failSet map[string]error
}

func newTestStore() *testStore {
	return &testStore{values: make(map[string]string), failSet: make(map[string]error)}
}

func (s *testStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *testStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failSet[key]; err != nil {
		return err
	}
	s.values[key] = value
	return nil
}

func (s *testStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *testStore) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

const testSecret = "test-secret"

func newStubBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(stubapi.NewRouter(stubapi.Options{
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
		Log:       zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newSessionService(baseURL string, st ports.CredentialStore) *SessionService {
	client := api.NewClient(baseURL, st, zerolog.Nop())
	return NewSessionService(client, st, zerolog.Nop())
}

func aliceSignUp() ports.SignUpInput {
	return ports.SignUpInput{
		Name:            "Alice",
		Email:           "alice@test.com",
		Phone:           "08011111111",
		Password:        "secret1",
		Role:            domain.RoleCustomer,
		PickupAddress:   "12 Marina Rd",
		DeliveryAddress: "4 Broad St",
	}
}

func registerAlice(t *testing.T, svc *SessionService) {
	t.Helper()
	outcome, err := svc.SignUp(context.Background(), aliceSignUp())
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if !outcome.OK {
		t.Fatalf("sign up rejected: %s", outcome.Message)
	}
}

func assertSessionInvariant(t *testing.T, sess domain.Session) {
	t.Helper()
	if (sess.User != nil) != (sess.Token != "") {
		t.Fatalf("session invariant broken: user=%v token=%q", sess.User, sess.Token)
	}
}

func TestSessionService_LoginSuccess(t *testing.T) {
	srv := newStubBackend(t)
	st := newTestStore()
	svc := newSessionService(srv.URL, st)
	registerAlice(t, svc)

	outcome, err := svc.Login(context.Background(), "alice@test.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !outcome.OK {
		t.Fatalf("login rejected: %s", outcome.Message)
	}
	if outcome.User == nil || outcome.User.Role != domain.RoleCustomer {
		t.Fatalf("unexpected user: %+v", outcome.User)
	}

	sess := svc.Session()
	assertSessionInvariant(t, sess)
	if !sess.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	if sess.UserType != domain.RoleCustomer {
		t.Fatalf("expected userType customer, got %q", sess.UserType)
	}

	// The three persisted keys are mutually consistent with memory.
	values := st.snapshot()
	if values[ports.KeyUserType] != domain.RoleCustomer {
		t.Fatalf("persisted userType = %q", values[ports.KeyUserType])
	}
	if values[ports.KeyAuthToken] != sess.Token {
		t.Fatal("persisted token differs from session token")
	}
	var persisted domain.User
	if err := json.Unmarshal([]byte(values[ports.KeyUser]), &persisted); err != nil {
		t.Fatalf("persisted user unreadable: %v", err)
	}
	if persisted.ID != sess.User.ID {
		t.Fatalf("persisted user %q, session user %q", persisted.ID, sess.User.ID)
	}
}

func TestSessionService_RestoreRoundTrip(t *testing.T) {
	srv := newStubBackend(t)
	st := newTestStore()
	svc := newSessionService(srv.URL, st)
	registerAlice(t, svc)

	if _, err := svc.Login(context.Background(), "alice@test.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	loggedIn := svc.Session()

	// A fresh service over the same store stands in for a process restart.
	restoredSvc := newSessionService(srv.URL, st)
	restored := restoredSvc.Restore(context.Background())

	assertSessionInvariant(t, restored)
	if !restored.Authenticated() {
		t.Fatal("expected restored session to be authenticated")
	}
	if restored.User.ID != loggedIn.User.ID || restored.Token != loggedIn.Token || restored.UserType != loggedIn.UserType {
		t.Fatalf("restored session differs: %+v vs %+v", restored, loggedIn)
	}
	if restoredSvc.Loading() {
		t.Fatal("loading flag must clear after restore")
	}
}

func TestSessionService_RestoreEmptyStore(t *testing.T) {
	srv := newStubBackend(t)
	svc := newSessionService(srv.URL, newTestStore())

	sess := svc.Restore(context.Background())
	assertSessionInvariant(t, sess)
	if sess.Authenticated() {
		t.Fatal("expected anonymous session")
	}
	if svc.Loading() {
		t.Fatal("loading flag must clear after restore")
	}
}

func TestSessionService_RestoreExpiredToken(t *testing.T) {
	srv := newStubBackend(t)
	st := newTestStore()
	ctx := context.Background()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	token, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_ = st.Set(ctx, ports.KeyUser, `{"id":"u1","role":"customer"}`)
	_ = st.Set(ctx, ports.KeyAuthToken, token)
	_ = st.Set(ctx, ports.KeyUserType, "customer")

	svc := newSessionService(srv.URL, st)
	sess := svc.Restore(ctx)

	if sess.Authenticated() {
		t.Fatal("expected expired session to restore as anonymous")
	}
	if len(st.snapshot()) != 0 {
		t.Fatalf("expected stale keys cleared, got %v", st.snapshot())
	}
}

func TestSessionService_RestoreOpaqueToken(t *testing.T) {
	srv := newStubBackend(t)
	st := newTestStore()
	ctx := context.Background()

	_ = st.Set(ctx, ports.KeyUser, `{"id":"u1","role":"courier"}`)
	_ = st.Set(ctx, ports.KeyAuthToken, "tok123")
	_ = st.Set(ctx, ports.KeyUserType, "courier")

	svc := newSessionService(srv.URL, st)
	sess := svc.Restore(ctx)

	if !sess.Authenticated() {
		t.Fatal("opaque tokens must restore")
	}
	if sess.User.ID != "u1" || sess.UserType != "courier" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestSessionService_LoginRejectedLeavesNoTrace(t *testing.T) {
	srv := newStubBackend(t)
	st := newTestStore()
	svc := newSessionService(srv.URL, st)
	registerAlice(t, svc)
	_ = st.Remove(context.Background(), ports.KeyUserType) // isolate login effects

	outcome, err := svc.Login(context.Background(), "alice@test.com", "wrong-password")
	if err != nil {
		t.Fatalf("rejection must not be an error: %v", err)
	}
	if outcome.OK {
		t.Fatal("expected rejection")
	}
	if outcome.Message != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", outcome.Message)
	}

	if len(st.snapshot()) != 0 {
		t.Fatalf("no keys may be persisted on rejection, got %v", st.snapshot())
	}
	sess := svc.Session()
	assertSessionInvariant(t, sess)
	if sess.Authenticated() {
		t.Fatal("session must stay anonymous")
	}
}

func TestSessionService_LoginStorageFailureRollsBack(t *testing.T) {
	srv := newStubBackend(t)
	st := newTestStore()
	svc := newSessionService(srv.URL, st)
	registerAlice(t, svc)

	// Simulate a previously persisted session that must survive the failed
	// commit untouched.
	ctx := context.Background()
	_ = st.Set(ctx, ports.KeyUser, `{"id":"old","role":"customer"}`)
	_ = st.Set(ctx, ports.KeyAuthToken, "old-token")
	_ = st.Set(ctx, ports.KeyUserType, "customer")
	before := st.snapshot()

	st.mu.Lock()
	st.failSet[ports.KeyAuthToken] = errors.New("disk full")
	st.mu.Unlock()

	_, err := svc.Login(ctx, "alice@test.com", "secret1")
	if err == nil {
		t.Fatal("expected storage failure to fail the login")
	}

	st.mu.Lock()
	delete(st.failSet, ports.KeyAuthToken)
	st.mu.Unlock()

	after := st.snapshot()
	if len(after) != len(before) {
		t.Fatalf("key count changed: %v vs %v", after, before)
	}
	for k, v := range before {
		if after[k] != v {
			t.Fatalf("key %q changed from %q to %q", k, v, after[k])
		}
	}

	sess := svc.Session()
	if sess.Authenticated() {
		t.Fatal("in-memory session must not update when persistence fails")
	}
}

func TestSessionService_LogoutIdempotent(t *testing.T) {
	srv := newStubBackend(t)
	st := newTestStore()
	svc := newSessionService(srv.URL, st)
	registerAlice(t, svc)

	ctx := context.Background()
	if _, err := svc.Login(ctx, "alice@test.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}

	if len(st.snapshot()) != 0 {
		t.Fatalf("expected empty store, got %v", st.snapshot())
	}
	sess := svc.Session()
	assertSessionInvariant(t, sess)
	if sess.Authenticated() || sess.UserType != "" {
		t.Fatalf("expected cleared session, got %+v", sess)
	}
}

func TestSessionService_SignUpPersistsOnlyRole(t *testing.T) {
	srv := newStubBackend(t)
	st := newTestStore()
	svc := newSessionService(srv.URL, st)

	input := aliceSignUp()
	input.Role = domain.RoleCourier
	input.VehicleModel = "Yamaha XTZ"
	input.VehiclePlate = "LAG-123"
	input.VehicleColor = "red"
	input.PayoutMethod = "bank_transfer"
	input.BankName = "First Bank"

	outcome, err := svc.SignUp(context.Background(), input)
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if !outcome.OK {
		t.Fatalf("sign up rejected: %s", outcome.Message)
	}

	values := st.snapshot()
	if values[ports.KeyUserType] != domain.RoleCourier {
		t.Fatalf("expected persisted userType courier, got %q", values[ports.KeyUserType])
	}
	if _, ok := values[ports.KeyUser]; ok {
		t.Fatal("sign up must not persist a user record")
	}
	if _, ok := values[ports.KeyAuthToken]; ok {
		t.Fatal("sign up must not persist a token")
	}

	sess := svc.Session()
	assertSessionInvariant(t, sess)
	if sess.Authenticated() {
		t.Fatal("sign up must not authenticate")
	}
}

func TestSessionService_SignUpRejectsUnknownRole(t *testing.T) {
	srv := newStubBackend(t)
	svc := newSessionService(srv.URL, newTestStore())

	input := aliceSignUp()
	input.Role = "pilot"
	if _, err := svc.SignUp(context.Background(), input); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSessionService_ConcurrentLoginsStayConsistent(t *testing.T) {
	srv := newStubBackend(t)
	st := newTestStore()
	svc := newSessionService(srv.URL, st)

	registerAlice(t, svc)
	bob := aliceSignUp()
	bob.Name = "Bob"
	bob.Email = "bob@test.com"
	bob.Phone = "08022222222"
	bob.Password = "secret2"
	if outcome, err := svc.SignUp(context.Background(), bob); err != nil || !outcome.OK {
		t.Fatalf("bob sign up failed: %v %+v", err, outcome)
	}

	var wg sync.WaitGroup
	for _, creds := range [][2]string{
		{"alice@test.com", "secret1"},
		{"bob@test.com", "secret2"},
	} {
		wg.Add(1)
		go func(identifier, password string) {
			defer wg.Done()
			if _, err := svc.Login(context.Background(), identifier, password); err != nil {
				t.Errorf("login %s failed: %v", identifier, err)
			}
		}(creds[0], creds[1])
	}
	wg.Wait()

	// Commits serialize: whichever login resolved last wins, and memory and
	// storage agree with each other.
	sess := svc.Session()
	assertSessionInvariant(t, sess)
	if !sess.Authenticated() {
		t.Fatal("expected an authenticated session")
	}

	values := st.snapshot()
	if values[ports.KeyAuthToken] != sess.Token {
		t.Fatal("persisted token differs from session token")
	}
	var persisted domain.User
	if err := json.Unmarshal([]byte(values[ports.KeyUser]), &persisted); err != nil {
		t.Fatalf("persisted user unreadable: %v", err)
	}
	if persisted.ID != sess.User.ID {
		t.Fatalf("persisted user %q, session user %q", persisted.ID, sess.User.ID)
	}
}

func TestSessionService_SendOTP(t *testing.T) {
	srv := newStubBackend(t)
	svc := newSessionService(srv.URL, newTestStore())

	outcome, err := svc.SendOTP(context.Background(), "08011111111")
	if err != nil {
		t.Fatalf("send otp failed: %v", err)
	}
	if !outcome.OK {
		t.Fatalf("send otp rejected: %s", outcome.Message)
	}
}

func TestSessionService_NetworkFailure(t *testing.T) {
	srv := newStubBackend(t)
	url := srv.URL
	srv.Close() // connection refused from here on

	svc := newSessionService(url, newTestStore())
	_, err := svc.Login(context.Background(), "alice@test.com", "secret1")
	if !errors.Is(err, api.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}
