package auth

// Role classifies an account by the identity table it was resolved from.
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

// Valid reports whether the role is one of the known enum values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleProfessor
}

// Identity is the (user id, role) pair carried by a session token. It is
// re-derived from the token on every request and never persisted.
type Identity struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}

// CredentialRecord is one row of the student/professor union lookup,
// tagged with the role of its source table.
type CredentialRecord struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
}
