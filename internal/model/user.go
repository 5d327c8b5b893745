package model

// AdminUser represents a row in the `admin_users` table. There is a single
// administrator account in a typical deployment, seeded at bootstrap. The
// json tags are omitted because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the admin user.
//  Username     – unique username, stored as provided (case-sensitive).
//  PasswordHash – bcrypt hashed password.
//  TokenVersion – monotonically increasing counter embedded into issued
//                 tokens; bumping it invalidates every outstanding refresh
//                 token for this user.
//  CreatedAt    – Unix timestamp of creation.
//  UpdatedAt    – Unix timestamp of last update.
type AdminUser struct {
	ID           uint64 // admin_users.id
	Username     string // admin_users.username
	PasswordHash string // admin_users.password_hash
	TokenVersion int64  // admin_users.token_version
	CreatedAt    int64  // admin_users.created_at
	UpdatedAt    int64  // admin_users.updated_at
}
