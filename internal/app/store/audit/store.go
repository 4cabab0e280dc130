package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth       = "auth"
	CategoryEnrollment = "enrollment"
	CategoryAdmin      = "admin"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedBadCredential = "login_failed_bad_credential"
	EventLogout                   = "logout"
)

// Enrollment event types
const (
	EventRequestSubmitted     = "request_submitted"
	EventRequestApproved      = "request_approved"
	EventRequestRejected      = "request_rejected"
	EventRequestReopened      = "request_reopened"
	EventApprovalRolledBack   = "approval_rolled_back"
	EventMemberEnrolledDirect = "member_enrolled_direct"
)

// Admin event types
const (
	EventInstitutionCreated = "institution_created"
	EventInstitutionUpdated = "institution_updated"
	EventInstitutionDeleted = "institution_deleted"
	EventMemberUpdated      = "member_updated"
	EventMemberDeleted      = "member_deleted"
	EventWorksSeatAssigned  = "works_seat_assigned"
	EventWorksSeatRemoved   = "works_seat_removed"
)

// Event represents an audit event.
type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp     time.Time          `bson:"timestamp"`
	InstitutionID string             `bson:"institution_id,omitempty"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who: directory identity IDs
	SubjectID string `bson:"subject_id,omitempty"` // affected account
	ActorID   string `bson:"actor_id,omitempty"`   // who performed the action

	// What the event touched
	RequestID string `bson:"request_id,omitempty"`
	MemberID  string `bson:"member_id,omitempty"` // assigned member number

	// Context
	IP        string `bson:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	InstitutionID string
	SubjectID     string
	Category      string
	EventType     string
	StartTime     *time.Time
	EndTime       *time.Time
	Limit         int64
	Offset        int64
}

func (f QueryFilter) query() bson.M {
	q := bson.M{}
	if f.InstitutionID != "" {
		q["institution_id"] = f.InstitutionID
	}
	if f.SubjectID != "" {
		q["subject_id"] = f.SubjectID
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.EventType != "" {
		q["event_type"] = f.EventType
	}
	if f.StartTime != nil || f.EndTime != nil {
		tq := bson.M{}
		if f.StartTime != nil {
			tq["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			tq["$lte"] = *f.EndTime
		}
		q["timestamp"] = tq
	}
	return q
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// EnsureIndexes creates the indexes needed for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{
			{Key: "institution_id", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "subject_id", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "event_type", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query retrieves audit events matching the given filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// GetBySubject retrieves recent audit events for a directory identity.
func (s *Store) GetBySubject(ctx context.Context, subjectID string, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{SubjectID: subjectID, Limit: limit})
}

// GetRecent retrieves the most recent audit events.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}
