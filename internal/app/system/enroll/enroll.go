// Package enroll implements the membership enrollment workflow: submitting
// requests, allocating member numbers, and the approval transaction that
// provisions a directory identity, a role profile, and a member record.
//
// Approval spans the database and the Account Directory, which do not share
// a transaction. The workflow therefore runs as an ordered sequence of
// steps with compensations: when a later step fails, the completed steps
// are undone in reverse order and the request stays pending. The unique
// index on members.member_id is the final authority on number uniqueness;
// the allocator and the pre-check only reduce the odds of a collision.
package enroll

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/store/audit"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
	"github.com/zehsscwu/unionhub/internal/app/system/directory"
	"github.com/zehsscwu/unionhub/internal/app/system/memberid"
	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// MemberStore is the slice of the member store the workflow needs.
type MemberStore interface {
	memberid.LatestSource
	ExistsMemberID(ctx context.Context, memberID string) (bool, error)
	Create(ctx context.Context, m models.Member) (models.Member, error)
	Delete(ctx context.Context, id string) error
}

// RequestStore is the slice of the request store the workflow needs.
type RequestStore interface {
	Create(ctx context.Context, r models.MemberRequest) (models.MemberRequest, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.MemberRequest, error)
	MarkApproved(ctx context.Context, id primitive.ObjectID, memberID string) error
	MarkRejected(ctx context.Context, id primitive.ObjectID) error
}

// ProfileStore is the slice of the profile store the workflow needs.
type ProfileStore interface {
	Create(ctx context.Context, p models.Profile) (models.Profile, error)
	Delete(ctx context.Context, id string) error
}

// TotalAdjuster updates institution rollup counters. Counter updates are
// best effort; a failure is logged but does not fail an approval.
type TotalAdjuster interface {
	AdjustTotals(ctx context.Context, id string, members, council, committee int64) error
}

// Recorder writes audit events. Failures are logged, never propagated.
type Recorder interface {
	Log(ctx context.Context, event audit.Event) error
}

// Service runs the enrollment workflow.
type Service struct {
	members      MemberStore
	requests     RequestStore
	profiles     ProfileStore
	institutions TotalAdjuster
	dir          directory.Service
	alloc        *memberid.Allocator
	orgDomain    string
	log          *zap.Logger
	audit        Recorder
}

// Config wires a Service. Members, Requests, Profiles, Directory, Prefix,
// and OrgDomain are required; Institutions and Audit are optional.
type Config struct {
	Members      MemberStore
	Requests     RequestStore
	Profiles     ProfileStore
	Institutions TotalAdjuster
	Directory    directory.Service
	Prefix       string // member number prefix, e.g. "ZEH"
	OrgDomain    string // email domain for generated accounts, e.g. "zehsscwu.org"
	Log          *zap.Logger
	Audit        Recorder
}

func New(cfg Config) *Service {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		members:      cfg.Members,
		requests:     cfg.Requests,
		profiles:     cfg.Profiles,
		institutions: cfg.Institutions,
		dir:          cfg.Directory,
		alloc:        memberid.New(cfg.Prefix, cfg.Members),
		orgDomain:    cfg.OrgDomain,
		log:          log,
		audit:        cfg.Audit,
	}
}

// SuggestMemberID proposes the next member number for the approval form.
// It never fails; allocation problems degrade to the seed value.
func (s *Service) SuggestMemberID(ctx context.Context) string {
	return s.alloc.Next(ctx)
}

// Submit records a new enrollment request in the pending state. No
// duplicate detection happens here; reviewers resolve duplicates at
// approval time.
func (s *Service) Submit(ctx context.Context, r models.MemberRequest) (models.MemberRequest, error) {
	if r.InstitutionID == "" {
		return models.MemberRequest{}, apperr.New(apperr.Validation, "an institution is required")
	}
	if normalize.Name(r.FullName) == "" {
		return models.MemberRequest{}, apperr.New(apperr.Validation, "full name is required")
	}
	created, err := s.requests.Create(ctx, r)
	if err != nil {
		return models.MemberRequest{}, apperr.Wrap(apperr.Remote, "saving enrollment request", err)
	}
	s.record(ctx, audit.Event{
		Category:      audit.CategoryEnrollment,
		EventType:     audit.EventRequestSubmitted,
		InstitutionID: created.InstitutionID,
		RequestID:     created.ID.Hex(),
		Success:       true,
	})
	return created, nil
}

// Approval is the reviewer's input to Approve.
type Approval struct {
	RequestID primitive.ObjectID
	MemberID  string // number to assign, usually from SuggestMemberID
	ActorID   string // reviewing admin's identity ID, for the audit trail
}

// Approve turns a pending request into an enrolled member.
//
// The sequence: validate the member number, check it is unassigned, load
// the request and confirm it is still pending, then provision the
// directory identity, the role profile, and the member record, and finally
// mark the request approved. Any failure after provisioning began undoes
// the completed steps in reverse order, so a failed approval leaves the
// request pending and no orphaned records behind.
func (s *Service) Approve(ctx context.Context, in Approval) (models.Member, error) {
	memberID := normalize.MemberID(in.MemberID)
	if !memberid.Valid(memberID) {
		return models.Member{}, apperr.Newf(apperr.Validation, "%q is not a valid member number", in.MemberID)
	}

	// Early friendly check; the unique index still decides.
	taken, err := s.members.ExistsMemberID(ctx, memberID)
	if err != nil {
		return models.Member{}, apperr.Wrap(apperr.Remote, "checking member number", err)
	}
	if taken {
		return models.Member{}, apperr.Newf(apperr.Conflict, "member number %s is already assigned", memberID)
	}

	req, err := s.requests.GetByID(ctx, in.RequestID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Member{}, apperr.New(apperr.NotFound, "enrollment request not found")
	}
	if err != nil {
		return models.Member{}, apperr.Wrap(apperr.Remote, "loading enrollment request", err)
	}
	if !req.IsPending() {
		return models.Member{}, apperr.Newf(apperr.State, "request is already %s", req.Status)
	}

	member, err := s.provision(ctx, req, memberID)
	if err != nil {
		s.record(ctx, audit.Event{
			Category:      audit.CategoryEnrollment,
			EventType:     audit.EventRequestApproved,
			InstitutionID: req.InstitutionID,
			RequestID:     req.ID.Hex(),
			MemberID:      memberID,
			ActorID:       in.ActorID,
			Success:       false,
			FailureReason: apperr.Message(err),
		})
		return models.Member{}, err
	}

	s.record(ctx, audit.Event{
		Category:      audit.CategoryEnrollment,
		EventType:     audit.EventRequestApproved,
		InstitutionID: req.InstitutionID,
		RequestID:     req.ID.Hex(),
		MemberID:      memberID,
		SubjectID:     member.ID,
		ActorID:       in.ActorID,
		Success:       true,
	})
	return member, nil
}

// undoStack collects compensations in completion order; run executes them
// in reverse.
type undoStack []func()

func (u undoStack) run() {
	for i := len(u) - 1; i >= 0; i-- {
		u[i]()
	}
}

// provisionMember runs the three provisioning steps: directory identity,
// role profile, member record. The returned undo stack compensates the
// completed steps; the caller runs it when a later step of its own fails.
// tmpl supplies the demographics; ID, MemberID, and Status are set here.
func (s *Service) provisionMember(ctx context.Context, memberID string, tmpl models.Member) (models.Member, undoStack, error) {
	var undo undoStack

	// Step 1: directory identity. The member number doubles as the
	// initial password and the username; members change the password on
	// first sign-in.
	email := strings.ToLower(memberID) + "@" + s.orgDomain
	identity, err := s.dir.CreateIdentity(ctx, directory.NewIdentity{
		Email:    email,
		Password: memberID,
		Username: memberID,
		Role:     models.RoleMember,
	})
	if err != nil {
		if apperr.KindOf(err) == 0 {
			err = apperr.Wrap(apperr.Remote, "creating directory identity", err)
		}
		return models.Member{}, nil, err
	}
	undo = append(undo, func() {
		if derr := s.dir.DeleteIdentity(ctx, identity.ID); derr != nil {
			s.log.Error("rollback: deleting directory identity failed",
				zap.String("identity_id", identity.ID), zap.Error(derr))
		}
	})

	// Step 2: role profile.
	if _, err := s.profiles.Create(ctx, models.Profile{
		ID:       identity.ID,
		Role:     models.RoleMember,
		Username: memberID,
	}); err != nil {
		undo.run()
		return models.Member{}, nil, apperr.Wrap(apperr.Remote, "creating member profile", err)
	}
	undo = append(undo, func() {
		if derr := s.profiles.Delete(ctx, identity.ID); derr != nil {
			s.log.Error("rollback: deleting profile failed",
				zap.String("identity_id", identity.ID), zap.Error(derr))
		}
	})

	// Step 3: member record. A duplicate key here means a concurrent
	// enrollment won the number; the reviewer retries with a fresh
	// suggestion.
	tmpl.ID = identity.ID
	tmpl.MemberID = memberID
	tmpl.Status = models.MemberActive
	member, err := s.members.Create(ctx, tmpl)
	if err != nil {
		undo.run()
		if errors.Is(err, memberstore.ErrDuplicateMemberID) {
			return models.Member{}, nil, apperr.Newf(apperr.Conflict, "member number %s is already assigned", memberID)
		}
		return models.Member{}, nil, apperr.Wrap(apperr.Remote, "creating member record", err)
	}
	undo = append(undo, func() {
		if derr := s.members.Delete(ctx, member.ID); derr != nil {
			s.log.Error("rollback: deleting member record failed",
				zap.String("member_id", member.ID), zap.Error(derr))
		}
	})

	return member, undo, nil
}

// provision runs the provisioning steps plus the request update,
// compensating completed steps in reverse order on failure.
func (s *Service) provision(ctx context.Context, req *models.MemberRequest, memberID string) (models.Member, error) {
	member, undo, err := s.provisionMember(ctx, memberID, models.Member{
		InstitutionID:   req.InstitutionID,
		FullName:        req.FullName,
		NationalID:      req.NationalID,
		DateOfBirth:     req.DateOfBirth,
		Gender:          req.Gender,
		JobTitle:        req.JobTitle,
		DateJoined:      req.DateJoined,
		Grade:           req.Grade,
		ContactNumber:   req.ContactNumber,
		PositionInUnion: req.PositionInUnion,
		Branch:          req.Branch,
	})
	if err != nil {
		s.recordRollback(ctx, req, memberID)
		return models.Member{}, err
	}

	// Final step: mark the request approved.
	if err := s.requests.MarkApproved(ctx, req.ID, memberID); err != nil {
		undo.run()
		s.recordRollback(ctx, req, memberID)
		return models.Member{}, apperr.Wrap(apperr.Remote, "marking request approved", err)
	}

	s.bumpMemberTotal(ctx, req.InstitutionID)
	return member, nil
}

func (s *Service) recordRollback(ctx context.Context, req *models.MemberRequest, memberID string) {
	s.record(ctx, audit.Event{
		Category:      audit.CategoryEnrollment,
		EventType:     audit.EventApprovalRolledBack,
		InstitutionID: req.InstitutionID,
		RequestID:     req.ID.Hex(),
		MemberID:      memberID,
		Success:       true,
	})
}

// bumpMemberTotal adjusts the institution's rollup counter, best effort.
func (s *Service) bumpMemberTotal(ctx context.Context, institutionID string) {
	if s.institutions == nil {
		return
	}
	if err := s.institutions.AdjustTotals(ctx, institutionID, 1, 0, 0); err != nil {
		s.log.Warn("adjusting institution totals failed",
			zap.String("institution_id", institutionID), zap.Error(err))
	}
}

// DirectEnrollment is the admin's input to AddDirect.
type DirectEnrollment struct {
	MemberID string        // number to assign, usually from SuggestMemberID
	Member   models.Member // demographics; ID, MemberID, Status are overwritten
	ActorID  string        // enrolling admin's identity ID, for the audit trail
}

// AddDirect enrolls a member without a request: same validation and the
// same provisioning saga as an approval, with the admin supplying the
// demographics directly.
func (s *Service) AddDirect(ctx context.Context, in DirectEnrollment) (models.Member, error) {
	memberID := normalize.MemberID(in.MemberID)
	if !memberid.Valid(memberID) {
		return models.Member{}, apperr.Newf(apperr.Validation, "%q is not a valid member number", in.MemberID)
	}
	if in.Member.InstitutionID == "" {
		return models.Member{}, apperr.New(apperr.Validation, "an institution is required")
	}
	if normalize.Name(in.Member.FullName) == "" {
		return models.Member{}, apperr.New(apperr.Validation, "the member's full name is required")
	}

	taken, err := s.members.ExistsMemberID(ctx, memberID)
	if err != nil {
		return models.Member{}, apperr.Wrap(apperr.Remote, "checking member number", err)
	}
	if taken {
		return models.Member{}, apperr.Newf(apperr.Conflict, "member number %s is already assigned", memberID)
	}

	member, _, err := s.provisionMember(ctx, memberID, in.Member)
	if err != nil {
		s.record(ctx, audit.Event{
			Category:      audit.CategoryEnrollment,
			EventType:     audit.EventMemberEnrolledDirect,
			InstitutionID: in.Member.InstitutionID,
			MemberID:      memberID,
			ActorID:       in.ActorID,
			Success:       false,
			FailureReason: apperr.Message(err),
		})
		return models.Member{}, err
	}

	s.record(ctx, audit.Event{
		Category:      audit.CategoryEnrollment,
		EventType:     audit.EventMemberEnrolledDirect,
		InstitutionID: in.Member.InstitutionID,
		MemberID:      memberID,
		SubjectID:     member.ID,
		ActorID:       in.ActorID,
		Success:       true,
	})
	s.bumpMemberTotal(ctx, in.Member.InstitutionID)
	return member, nil
}

// Reject marks a pending request rejected.
//
// Rejecting a request that is already rejected is a no-op; rejecting an
// approved request is a state error because the member it produced would
// be orphaned.
func (s *Service) Reject(ctx context.Context, id primitive.ObjectID, actorID string) error {
	req, err := s.requests.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.New(apperr.NotFound, "enrollment request not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Remote, "loading enrollment request", err)
	}

	switch req.Status {
	case models.RequestRejected:
		return nil
	case models.RequestApproved:
		return apperr.New(apperr.State, "request is already approved")
	}

	if err := s.requests.MarkRejected(ctx, id); err != nil {
		return apperr.Wrap(apperr.Remote, "marking request rejected", err)
	}
	s.record(ctx, audit.Event{
		Category:      audit.CategoryEnrollment,
		EventType:     audit.EventRequestRejected,
		InstitutionID: req.InstitutionID,
		RequestID:     req.ID.Hex(),
		ActorID:       actorID,
		Success:       true,
	})
	return nil
}

func (s *Service) record(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, event); err != nil {
		s.log.Warn("audit log write failed",
			zap.String("event_type", event.EventType), zap.Error(err))
	}
}
