// internal/domain/models/institution.go
package models

import "time"

// Institution is an employer whose staff belong to the union. Like Member,
// the document _id is the directory identity ID so the institution's portal
// login shares the record's key. InstitutionID is the union-issued code the
// institution types at login.
//
// The Total* counters are denormalized for dashboard display only; they are
// not recomputed transactionally.
type Institution struct {
	ID              string `bson:"_id" json:"id"`
	InstitutionID   string `bson:"institution_id" json:"institution_id"`
	InstitutionName string `bson:"institution_name" json:"institution_name"`
	Email           string `bson:"email,omitempty" json:"email,omitempty"`
	Landline        string `bson:"landline,omitempty" json:"landline,omitempty"`
	HeadContact     string `bson:"head_contact,omitempty" json:"head_contact,omitempty"`
	BursarContact   string `bson:"bursar_contact,omitempty" json:"bursar_contact,omitempty"`
	Branch          string `bson:"branch,omitempty" json:"branch,omitempty"`

	TotalMembers        int64 `bson:"total_members" json:"total_members"`
	TotalWorksCouncil   int64 `bson:"total_works_council" json:"total_works_council"`
	TotalWorksCommittee int64 `bson:"total_works_committee" json:"total_works_committee"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
