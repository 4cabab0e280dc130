// internal/domain/models/works.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Works body kinds. Each institution has a works council and a works
// committee, both plain join rows between the institution and a member
// with a free-form rank ("Chairperson", "Secretary", ...).
const (
	WorksCouncil   = "council"
	WorksCommittee = "committee"
)

// WorksAssignment is one seat on a works council or works committee.
type WorksAssignment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstitutionID string             `bson:"institution_id" json:"institution_id"`
	MemberID      string             `bson:"member_id" json:"member_id"` // identity ID of the member
	Rank          string             `bson:"rank" json:"rank"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
