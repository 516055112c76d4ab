package model

// User represents an application user record as stored in the
// `Usuarios` table. The password hash never leaves the server.
type User struct {
	ID           int64  `json:"id_usuario"` // Usuarios.id_usuario
	Username     string `json:"username"`   // Usuarios.username (unique)
	PasswordHash string `json:"-"`          // Usuarios.password (bcrypt)
}

// RevokedToken is a row of `Tokens_Revocados`: the jti of a logged-out
// access token kept until the token would have expired anyway.
type RevokedToken struct {
	JTI       string // Tokens_Revocados.jti
	ExpiresAt string // Tokens_Revocados.expires_at (RFC3339)
}
