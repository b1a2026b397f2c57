// Package booking implements the state machine (C3) and booking engine (C6):
// creation, atomic provider accept, guarded transitions, completion with
// capture, cancellation, provider re-dispatch, and issue flagging. Every
// mutation runs inside a single transaction obtained from internal/store and
// locks its booking row with SELECT ... FOR UPDATE, a pattern grounded on
// shivamshaw23-Hintro's booking_repository.go, since the control-plane
// codebase this module was adapted from never demonstrates row-level locking.
package booking

import "time"

// Status is a booking's lifecycle state.
type Status string

const (
	StatusPendingPayment  Status = "PENDING_PAYMENT"
	StatusPaidSearching    Status = "PAID_SEARCHING"
	StatusAccepted         Status = "ACCEPTED"
	StatusEnRoute          Status = "EN_ROUTE"
	StatusArrived          Status = "ARRIVED"
	StatusInProgress       Status = "IN_PROGRESS"
	StatusCompletePending  Status = "COMPLETE_PENDING"
	StatusNeedsReview      Status = "NEEDS_REVIEW"
	StatusClosed           Status = "CLOSED"
	StatusCancelled        Status = "CANCELLED"
	StatusExpired          Status = "EXPIRED"
)

// Role is the actor role making a request, per the external contract layer.
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

// Booking is the root aggregate.
type Booking struct {
	ID                    string
	Status                Status
	CustomerID            string
	ProviderID            *string
	ServiceID             string
	SlotID                string
	CandidateList         []string
	OTP                   string
	ExpiresAt             time.Time
	CompletePendingUntil  *time.Time
	ServiceNameSnapshot   *string
	PriceSnapshotCents    *int64
	StripePaymentIntentID *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Event is an append-only audit record of a transition or significant action.
type Event struct {
	ID         string
	BookingID  string
	EventType  string
	FromStatus Status
	ToStatus   Status
	ActorRole  Role
	ActorUID   string
	Reason     string
	CreatedAt  time.Time
}

// Service is the static, read-only service catalogue entry.
type Service struct {
	ID         string
	Category   string
	Name       string
	PriceCents int64
	IsActive   bool
}

// Provider is a service-provider profile.
type Provider struct {
	ID          string
	UserUID     string
	DisplayName string
	IsOnline    bool
	CreatedAt   time.Time
}

// CancellationFeeCents is the fixed cancellation fee charged to the customer
// when cancelling from EN_ROUTE or ARRIVED, per the cancellation-fee rule.
const CancellationFeeCents = 1000

// DefaultPendingPaymentTTL sets a new booking's expires_at. The TTL sweeper
// does not read expires_at: it expires unpaid bookings by age (SweepAfter).
const DefaultPendingPaymentTTL = 15 * time.Minute

// GraceWindow is how long after COMPLETE_PENDING the customer may flag an
// issue.
const GraceWindow = 30 * time.Minute

// SweepAfter is the age at which an unpaid PENDING_PAYMENT booking becomes
// eligible for sweeper expiry.
const SweepAfter = 24 * time.Hour

// MaxCandidates bounds the candidate list size at creation.
const MaxCandidates = 5
