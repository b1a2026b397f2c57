package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/crosslogic/bookingcore/internal/booking"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow and fakeQuerier are hand-rolled stand-ins for booking.Querier,
// letting the ledger's SQL-shaped calls be exercised without a database.
type fakeRow struct {
	scanFunc func(dest ...interface{}) error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.scanFunc != nil {
		return r.scanFunc(dest...)
	}
	return nil
}

type fakeQuerier struct {
	execFunc     func(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	queryRowFunc func(ctx context.Context, sql string, args ...interface{}) pgx.Row
	execCalls    []string
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execCalls = append(f.execCalls, sql)
	if f.execFunc != nil {
		return f.execFunc(ctx, sql, args...)
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented by fakeQuerier")
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if f.queryRowFunc != nil {
		return f.queryRowFunc(ctx, sql, args...)
	}
	return fakeRow{}
}

// spyAuthorizer records whether Capture/Void hit the SDK, so tests can assert
// a mock provider ref never reaches the network.
type spyAuthorizer struct {
	captureCalled bool
	voidCalled    bool
	authorizeRef  string
	authorizeErr  error
}

func (s *spyAuthorizer) Authorize(ctx context.Context, bookingID string, amountCents int64) (string, bool, error) {
	if s.authorizeErr != nil {
		return "", false, s.authorizeErr
	}
	return s.authorizeRef, false, nil
}
func (s *spyAuthorizer) Capture(ctx context.Context, ref string) error { s.captureCalled = true; return nil }
func (s *spyAuthorizer) Void(ctx context.Context, ref string) error    { s.voidCalled = true; return nil }

func authorizedIntentRow(bookingID, ref string, amount int64) fakeRow {
	return fakeRow{scanFunc: func(dest ...interface{}) error {
		*dest[0].(*string) = "intent-1"
		*dest[1].(*string) = bookingID
		*dest[2].(*Status) = StatusAuthorized
		*dest[3].(*string) = "STRIPE"
		*dest[4].(*string) = ref
		*dest[5].(*int64) = amount
		*dest[6].(*string) = Currency
		*dest[7].(*Kind) = KindMain
		return nil
	}}
}

func TestMockAuthorizer(t *testing.T) {
	a := NewMockAuthorizer()

	ref, isMock, err := a.Authorize(context.Background(), "booking-1", 5000)
	require.NoError(t, err)
	assert.True(t, isMock)
	assert.True(t, isMockRef(ref))

	assert.NoError(t, a.Capture(context.Background(), ref))
	assert.NoError(t, a.Void(context.Background(), ref))
}

func TestIsMockRef(t *testing.T) {
	assert.True(t, isMockRef("pi_mock_abc123"))
	assert.False(t, isMockRef("pi_1Hh1abcdef"))
	assert.False(t, isMockRef("pi_mo"))
}

func TestLedger_CreateIntent_UsesPriceSnapshotWhenPresent(t *testing.T) {
	price := int64(7500)
	b := &booking.Booking{ID: "b1", PriceSnapshotCents: &price}
	auth := &spyAuthorizer{authorizeRef: "pi_test_123"}
	l := New(auth)

	q := &fakeQuerier{}
	intent, err := l.CreateIntent(context.Background(), q, b)

	require.NoError(t, err)
	assert.Equal(t, int64(7500), intent.AmountCents)
	assert.Equal(t, Currency, intent.Currency)
	assert.Equal(t, StatusCreated, intent.Status)
	assert.Len(t, q.execCalls, 1)
}

func TestLedger_CreateIntent_FallsBackToDefaultAmount(t *testing.T) {
	b := &booking.Booking{ID: "b1"}
	auth := &spyAuthorizer{authorizeRef: "pi_test_456"}
	l := New(auth)

	intent, err := l.CreateIntent(context.Background(), &fakeQuerier{}, b)

	require.NoError(t, err)
	assert.Equal(t, int64(DefaultAmountCents), intent.AmountCents)
}

func TestLedger_CreateIntent_PropagatesAuthorizeFailure(t *testing.T) {
	b := &booking.Booking{ID: "b1"}
	auth := &spyAuthorizer{authorizeErr: errors.New("provider unreachable")}
	l := New(auth)

	_, err := l.CreateIntent(context.Background(), &fakeQuerier{}, b)
	require.Error(t, err)
}

func TestLedger_Capture_NoAuthorizedIntent(t *testing.T) {
	auth := &spyAuthorizer{}
	l := New(auth)
	q := &fakeQuerier{
		queryRowFunc: func(ctx context.Context, sql string, args ...interface{}) pgx.Row {
			return fakeRow{scanFunc: func(dest ...interface{}) error { return pgx.ErrNoRows }}
		},
	}

	_, err := l.Capture(context.Background(), q, "b1")
	require.Error(t, err)
	assert.False(t, auth.captureCalled)
}

func TestLedger_Capture_SkipsSDKForMockRef(t *testing.T) {
	auth := &spyAuthorizer{}
	l := New(auth)
	q := &fakeQuerier{
		queryRowFunc: func(ctx context.Context, sql string, args ...interface{}) pgx.Row {
			return authorizedIntentRow("b1", "pi_mock_abcdef123456", 5000)
		},
	}

	intent, err := l.Capture(context.Background(), q, "b1")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, intent.Status)
	assert.False(t, auth.captureCalled, "a mock provider ref must never reach the real SDK")
}

func TestLedger_Capture_CallsSDKForRealRef(t *testing.T) {
	auth := &spyAuthorizer{}
	l := New(auth)
	q := &fakeQuerier{
		queryRowFunc: func(ctx context.Context, sql string, args ...interface{}) pgx.Row {
			return authorizedIntentRow("b1", "pi_1RealStripeRef", 5000)
		},
	}

	_, err := l.Capture(context.Background(), q, "b1")
	require.NoError(t, err)
	assert.True(t, auth.captureCalled)
}

func TestLedger_Release_NoIntentIsANoop(t *testing.T) {
	auth := &spyAuthorizer{}
	l := New(auth)
	q := &fakeQuerier{
		queryRowFunc: func(ctx context.Context, sql string, args ...interface{}) pgx.Row {
			return fakeRow{scanFunc: func(dest ...interface{}) error { return pgx.ErrNoRows }}
		},
	}

	intent, err := l.Release(context.Background(), q, "b1")
	require.NoError(t, err)
	assert.Nil(t, intent)
	assert.False(t, auth.voidCalled)
}

func TestLedger_Release_VoidsRealAuthorizedIntent(t *testing.T) {
	auth := &spyAuthorizer{}
	l := New(auth)
	q := &fakeQuerier{
		queryRowFunc: func(ctx context.Context, sql string, args ...interface{}) pgx.Row {
			return authorizedIntentRow("b1", "pi_1RealStripeRef", 5000)
		},
	}

	intent, err := l.Release(context.Background(), q, "b1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, intent.Status)
	assert.True(t, auth.voidCalled)
}

func TestLedger_Fee_InsertsFeeKindIntent(t *testing.T) {
	l := New(&spyAuthorizer{})
	q := &fakeQuerier{}

	intent, err := l.Fee(context.Background(), q, "b1", booking.CancellationFeeCents)

	require.NoError(t, err)
	assert.Equal(t, KindFee, intent.Kind)
	assert.Equal(t, StatusSucceeded, intent.Status)
	assert.Equal(t, int64(booking.CancellationFeeCents), intent.AmountCents)
}
