package auth

// Package auth contains domain-level types for identity and sessions.
// It is pure and free of provider/adapter concerns.

// Role represents the application's coarse-grained authorization label.
// The authoritative value lives in the backend; the client caches it for
// navigation gating only. Keep string form for easy JSON transport.
type Role string

const (
	RoleUser  Role = "user"
	RoleRider Role = "rider"
	RoleAdmin Role = "admin"
)

// ParseRole maps a backend role string to a Role, falling back to RoleUser
// for empty or unknown values. The backend may return records created before
// a role was assigned; least privilege is the safe default.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleRider:
		return RoleRider
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Status is the lifecycle state of the client session.
type Status string

const (
	// StatusUnauthenticated means no identity is present.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusAuthenticating means a sign-in or ambient-session resume is in flight.
	StatusAuthenticating Status = "authenticating"
	// StatusAuthenticated means identity is confirmed and the role lookup settled.
	StatusAuthenticated Status = "authenticated"
	// StatusError means identity is confirmed but the role lookup failed;
	// the session stays usable with the least-privilege role.
	StatusError Status = "error"
)

// Identity is the read-only copy of the principal returned by the identity
// provider. The provider owns these fields; the client never mutates them.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// Session is the client's in-memory record of the current identity, role,
// and bearer credential. Exactly one exists per running client; it is
// mutated only by the authentication lifecycle.
type Session struct {
	Identity *Identity `json:"identity,omitempty"`
	Role     Role      `json:"role"`
	Token    string    `json:"-"`
	Status   Status    `json:"status"`
}

// SignedIn reports whether an identity is present. Both Authenticated and
// Error sessions carry an identity; Error only marks a degraded role.
func (s Session) SignedIn() bool { return s.Identity != nil }

// Email returns the signed-in email, or "" when unauthenticated.
func (s Session) Email() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Email
}

// UserRecord is the backend's user document, created on registration and
// kept in sync on federated sign-in.
type UserRecord struct {
	UID            string `json:"uid"`
	Email          string `json:"email"`
	DisplayName    string `json:"displayName"`
	PhotoURL       string `json:"photoURL"`
	Role           Role   `json:"role"`
	LastSignInTime string `json:"lastSignInTime,omitempty"`
}

// RecordFor builds the backend user record for a freshly confirmed identity.
// New records always start with the least-privilege role.
func RecordFor(id Identity) UserRecord {
	return UserRecord{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		Role:        RoleUser,
	}
}
