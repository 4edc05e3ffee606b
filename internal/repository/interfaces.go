package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aarogyahq/booking-api/internal/model"
)

// Sentinel errors the services translate into client-visible failures.
var (
	ErrNotFound             = errors.New("record not found")
	ErrAvailabilityNotFound = errors.New("availability row not found")
	ErrBookingStopped       = errors.New("bookings stopped for this date")
	ErrNoTokensLeft         = errors.New("no tokens left")
	ErrDuplicateQueueNum    = errors.New("queue number already taken")
	ErrTokenBelowFilled     = errors.New("token count below filled count")
	ErrDuplicateUser        = errors.New("email or mobile already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User, roles []model.Role) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	GetRoles(ctx context.Context, userID uuid.UUID) ([]model.Role, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role model.Role) error
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	ListBusinessUsers(ctx context.Context) ([]*model.User, error)
	ListPotentialHospitalAdmins(ctx context.Context) ([]*model.User, error)
}

type HospitalRepository interface {
	Create(ctx context.Context, hospital *model.Hospital, adminID *uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
	List(ctx context.Context) ([]*model.Hospital, error)
	Update(ctx context.Context, hospital *model.Hospital, adminID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListEmployees(ctx context.Context, hospitalID uuid.UUID) ([]model.HospitalEmployee, error)
	ListEmploymentsForUser(ctx context.Context, userID uuid.UUID) ([]model.HospitalEmployee, error)
	ListDoctors(ctx context.Context, hospitalID uuid.UUID) ([]model.DoctorSummary, error)
	ListFeatured(ctx context.Context, limit int) ([]model.FeaturedHospital, error)
}

type DoctorRepository interface {
	UpsertInfo(ctx context.Context, info *model.DoctorInfo) error
	GetInfoByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorInfo, error)
	ListUnassigned(ctx context.Context) ([]model.DoctorSummary, error)
	ListResponders(ctx context.Context, doctorID uuid.UUID) ([]model.Responder, error)
	ListForSecretary(ctx context.Context, secretaryID uuid.UUID) ([]model.DoctorSummary, error)
	ListDoctorIDsForSecretary(ctx context.Context, secretaryID uuid.UUID) ([]uuid.UUID, error)
	AssignSecretary(ctx context.Context, doctorID, secretaryID uuid.UUID) error
	RemoveSecretary(ctx context.Context, doctorID, secretaryID uuid.UUID) error
	ListFeatured(ctx context.Context, limit int) ([]model.DoctorSummary, error)
	ListSpecializations(ctx context.Context, doctorID uuid.UUID) ([]model.Specialization, error)
	GetEmployment(ctx context.Context, doctorID uuid.UUID) (*model.DoctorEmployment, error)
}

type SpecializationRepository interface {
	Create(ctx context.Context, sp *model.Specialization) error
	Get(ctx context.Context, id uuid.UUID) (*model.Specialization, error)
	List(ctx context.Context) ([]*model.Specialization, error)
	Update(ctx context.Context, sp *model.Specialization) error
	Delete(ctx context.Context, id uuid.UUID) error
	AttachToDoctor(ctx context.Context, doctorID, specializationID uuid.UUID) error
	DetachFromDoctor(ctx context.Context, doctorID, specializationID uuid.UUID) error
	AttachToHospital(ctx context.Context, hospitalID, specializationID uuid.UUID) error
	DetachFromHospital(ctx context.Context, hospitalID, specializationID uuid.UUID) error
	ListForHospital(ctx context.Context, hospitalID uuid.UUID) ([]model.Specialization, error)
}

// AvailabilityRepository owns every write to the doctor_availability row.
// All mutations are single conditional UPDATEs so the database serializes
// concurrent bookings, counter corrections and total edits.
type AvailabilityRepository interface {
	Get(ctx context.Context, doctorID uuid.UUID, date string) (*model.DoctorAvailability, error)
	GetDays(ctx context.Context, doctorID uuid.UUID, dates []string) (map[string]*model.DoctorAvailability, error)
	GetForDoctorsOnDate(ctx context.Context, doctorIDs []uuid.UUID, date string) (map[uuid.UUID]*model.DoctorAvailability, error)

	// BookToken atomically claims the next queue number and inserts the
	// booking plus its outbox event in one transaction. The token's
	// QueueNum is set from the post-increment filled count.
	BookToken(ctx context.Context, token *model.Token, event *model.OutboxEvent) (*model.DoctorAvailability, error)

	// Upsert creates or updates the row. Lowering the total below the
	// current filled count fails with ErrTokenBelowFilled and leaves the
	// row unchanged.
	Upsert(ctx context.Context, upsert *AvailabilityUpsert, event *model.OutboxEvent) (*model.DoctorAvailability, error)

	// AdjustCounters applies relative deltas, clamped in SQL to
	// [0, total_token_count] for filled and [0, inf) for consultations.
	AdjustCounters(ctx context.Context, doctorID uuid.UUID, date string, filledDelta, consultationsDelta int) (*model.DoctorAvailability, error)
}

// AvailabilityUpsert carries the resolved upsert values; nil pointers mean
// "keep the current value" (or zero on creation).
type AvailabilityUpsert struct {
	DoctorID          uuid.UUID
	Date              string
	TotalTokenCount   int
	IsStopped         *bool
	FilledTokenCount  *int
	ConsultationsDone *int
}

type TokenRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Token, error)
	ListForUser(ctx context.Context, userID uuid.UUID, fromDate string, upcoming bool) ([]*model.Token, error)
	ListForDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*model.Token, error)
}

// OutboxRepository drains events inside a single transaction: the SKIP
// LOCKED rows stay locked until the caller commits, so concurrent
// processors never publish the same event.
type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	GetPendingEventsTx(ctx context.Context, tx *sqlx.Tx, limit int) ([]*model.OutboxEvent, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status string, errorMessage *string, retryAt *time.Time) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
