package httpapi

import (
	"time"

	"github.com/crosslogic/bookingcore/internal/booking"
)

// bookingView is the JSON shape returned to HTTP clients. OTP is included
// only when the viewer is the owning customer or an admin, per the
// "Open question — OTP exposure" resolution: this rule lives at the
// serialization boundary, not inside the engine.
type bookingView struct {
	ID                    string     `json:"id"`
	Status                string     `json:"status"`
	CustomerID            string     `json:"customer_id"`
	ProviderID            *string    `json:"provider_id,omitempty"`
	ServiceID             string     `json:"service_id"`
	SlotID                string     `json:"slot_id"`
	CandidateList         []string   `json:"candidate_list,omitempty"`
	OTP                   string     `json:"otp,omitempty"`
	ExpiresAt             time.Time  `json:"expires_at"`
	CompletePendingUntil  *time.Time `json:"complete_pending_until,omitempty"`
	ServiceNameSnapshot   *string    `json:"service_name_snapshot,omitempty"`
	PriceSnapshotCents    *int64     `json:"price_snapshot_cents,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func toView(b *booking.Booking, viewer *Principal) bookingView {
	v := bookingView{
		ID:                   b.ID,
		Status:               string(b.Status),
		CustomerID:           b.CustomerID,
		ProviderID:           b.ProviderID,
		ServiceID:            b.ServiceID,
		SlotID:               b.SlotID,
		CandidateList:        b.CandidateList,
		ExpiresAt:            b.ExpiresAt,
		CompletePendingUntil: b.CompletePendingUntil,
		ServiceNameSnapshot:  b.ServiceNameSnapshot,
		PriceSnapshotCents:   b.PriceSnapshotCents,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
	if viewer != nil && (viewer.Role == booking.RoleAdmin || (viewer.Role == booking.RoleUser && viewer.UID == b.CustomerID)) {
		v.OTP = b.OTP
	}
	return v
}

func toViews(bs []*booking.Booking, viewer *Principal) []bookingView {
	out := make([]bookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, toView(b, viewer))
	}
	return out
}
