package auth

// Role es el rol del usuario autenticado.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole clampa cualquier valor externo a admin|user.
// Todo lo que no sea "admin" es "user" (mismo criterio que el form de registro).
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Caller representa la identidad resuelta de la sesión del request.
type Caller struct {
	ID    int64
	Name  string
	Email string
	Role  Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
