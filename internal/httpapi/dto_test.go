package httpapi

import (
	"testing"

	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/stretchr/testify/assert"
)

func sampleBooking() *booking.Booking {
	return &booking.Booking{
		ID:         "b1",
		Status:     booking.StatusArrived,
		CustomerID: "user-1",
		OTP:        "4821",
	}
}

func TestToView_OTPVisibility(t *testing.T) {
	b := sampleBooking()

	t.Run("owning customer sees the OTP", func(t *testing.T) {
		v := toView(b, &Principal{UID: "user-1", Role: booking.RoleUser})
		assert.Equal(t, "4821", v.OTP)
	})

	t.Run("admin sees the OTP", func(t *testing.T) {
		v := toView(b, &Principal{UID: "admin-1", Role: booking.RoleAdmin})
		assert.Equal(t, "4821", v.OTP)
	})

	t.Run("a different customer never sees the OTP", func(t *testing.T) {
		v := toView(b, &Principal{UID: "user-2", Role: booking.RoleUser})
		assert.Empty(t, v.OTP)
	})

	t.Run("the assigned provider never sees the OTP", func(t *testing.T) {
		v := toView(b, &Principal{UID: "provider-1", Role: booking.RoleProvider})
		assert.Empty(t, v.OTP)
	})

	t.Run("no viewer never sees the OTP", func(t *testing.T) {
		v := toView(b, nil)
		assert.Empty(t, v.OTP)
	})
}

func TestToViews_PreservesOrderAndLength(t *testing.T) {
	bs := []*booking.Booking{sampleBooking(), sampleBooking()}
	views := toViews(bs, &Principal{UID: "user-1", Role: booking.RoleUser})

	assert.Len(t, views, 2)
	for _, v := range views {
		assert.Equal(t, "4821", v.OTP)
	}
}

func TestToViews_EmptyInputReturnsEmptySlice(t *testing.T) {
	views := toViews(nil, nil)
	assert.NotNil(t, views)
	assert.Len(t, views, 0)
}
