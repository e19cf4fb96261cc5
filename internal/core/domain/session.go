package domain

// Session is the in-memory record of the current actor. A session is either
// fully authenticated (User and Token both set) or fully anonymous (both
// empty); no partial state is ever exposed.
type Session struct {
	User     *User
	Token    string
	UserType string
}

// Authenticated reports whether the session holds a logged-in user.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// Clone returns a deep copy so callers cannot mutate service-owned state.
func (s Session) Clone() Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
