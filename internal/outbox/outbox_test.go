package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuerier is a hand-rolled stand-in for Querier, capturing the last Exec
// call's SQL and args without touching a database.
type fakeQuerier struct {
	execErr  error
	lastSQL  string
	lastArgs []interface{}
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	f.lastArgs = args
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented by fakeQuerier")
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return nil
}

func TestAppend_InsertsMarshaledPayload(t *testing.T) {
	q := &fakeQuerier{}
	payload := map[string]any{"provider_uid": "provider-1"}

	err := Append(context.Background(), q, "booking-1", "user-1", KindBookingAccepted, payload)
	require.NoError(t, err)

	require.Len(t, q.lastArgs, 5)
	assert.Equal(t, "booking-1", q.lastArgs[1])
	assert.Equal(t, "user-1", q.lastArgs[2])
	assert.Equal(t, KindBookingAccepted, q.lastArgs[3])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(q.lastArgs[4].([]byte), &decoded))
	assert.Equal(t, "provider-1", decoded["provider_uid"])
}

func TestAppend_NilPayloadMarshalsToNull(t *testing.T) {
	q := &fakeQuerier{}
	err := Append(context.Background(), q, "booking-1", "admin", KindIssueFlagged, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte("null"), q.lastArgs[4])
}

func TestAppend_PropagatesExecError(t *testing.T) {
	q := &fakeQuerier{execErr: errors.New("connection reset")}
	err := Append(context.Background(), q, "booking-1", "user-1", KindBookingClosed, nil)
	assert.Error(t, err)
}

func TestAppend_RejectsUnmarshalablePayload(t *testing.T) {
	q := &fakeQuerier{}
	err := Append(context.Background(), q, "booking-1", "user-1", KindBookingClosed, map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}
