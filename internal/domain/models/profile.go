// internal/domain/models/profile.go
package models

import "time"

// Portal roles.
const (
	RoleAdmin       = "admin"
	RoleInstitution = "institution"
	RoleMember      = "member"
)

// Profile links a directory identity to its portal role. The _id equals the
// identity ID; Username is what the user types at login (the member ID or
// institution ID, or a full email for admins).
type Profile struct {
	ID       string `bson:"_id" json:"id"`
	Role     string `bson:"role" json:"role"` // admin | institution | member
	Username string `bson:"username" json:"username"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
