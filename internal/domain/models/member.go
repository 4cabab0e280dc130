// internal/domain/models/member.go
package models

import "time"

// Member statuses.
const (
	MemberActive  = "active"
	MemberRetired = "retired"
	MemberUnknown = "unknown"
)

// Member is a union member. The document _id is the Account Directory
// identity ID (a UUID string), so the member record and the login identity
// share one key. MemberID is the human-readable sequential code
// (e.g. "ZEH-0042") that doubles as the login username.
type Member struct {
	ID              string `bson:"_id" json:"id"`
	MemberID        string `bson:"member_id" json:"member_id"`
	InstitutionID   string `bson:"institution_id" json:"institution_id"`
	FullName        string `bson:"full_name" json:"full_name"`
	NationalID      string `bson:"national_id,omitempty" json:"national_id,omitempty"`
	DateOfBirth     string `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Gender          string `bson:"gender,omitempty" json:"gender,omitempty"`
	JobTitle        string `bson:"job_title,omitempty" json:"job_title,omitempty"`
	DateJoined      string `bson:"date_joined,omitempty" json:"date_joined,omitempty"`
	Grade           string `bson:"grade,omitempty" json:"grade,omitempty"`
	ContactNumber   string `bson:"contact_number,omitempty" json:"contact_number,omitempty"`
	PositionInUnion string `bson:"position_in_union,omitempty" json:"position_in_union,omitempty"`
	Branch          string `bson:"branch,omitempty" json:"branch,omitempty"`
	Status          string `bson:"status" json:"status"` // active | retired | unknown

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
