// internal/domain/models/memberrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership request statuses. A request only ever moves
// pending → approved or pending → rejected.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// MemberRequest is an institution-submitted application for a new Member.
// The demographic fields are copied verbatim onto the Member record when the
// request is approved. AssignedMemberID is set only at approval and records
// which code the admin chose, for audit.
type MemberRequest struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstitutionID   string             `bson:"institution_id" json:"institution_id"`
	FullName        string             `bson:"full_name" json:"full_name"`
	NationalID      string             `bson:"national_id,omitempty" json:"national_id,omitempty"`
	DateOfBirth     string             `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Gender          string             `bson:"gender,omitempty" json:"gender,omitempty"`
	JobTitle        string             `bson:"job_title,omitempty" json:"job_title,omitempty"`
	DateJoined      string             `bson:"date_joined,omitempty" json:"date_joined,omitempty"`
	Grade           string             `bson:"grade,omitempty" json:"grade,omitempty"`
	ContactNumber   string             `bson:"contact_number,omitempty" json:"contact_number,omitempty"`
	PositionInUnion string             `bson:"position_in_union,omitempty" json:"position_in_union,omitempty"`
	Branch          string             `bson:"branch,omitempty" json:"branch,omitempty"`

	// Notes is free text from the submitting institution (context for the
	// reviewer). It is sanitized at display time, not at rest.
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	Status           string `bson:"status" json:"status"`
	AssignedMemberID string `bson:"assigned_member_id,omitempty" json:"assigned_member_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsPending reports whether the request can still be approved or rejected.
func (r MemberRequest) IsPending() bool {
	return r.Status == RequestPending
}
