package sweeper

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchedule_Register(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewSchedule(mr.Addr())

	err := s.Register()
	require.NoError(t, err)
}

func TestNewServeMux_RegistersAllThreeTaskTypes(t *testing.T) {
	sweep := New(nil, nil, nil, zap.NewNop())
	mux := NewServeMux(sweep, func(ctx context.Context) (int, error) { return 0, nil }, zap.NewNop())
	assert.NotNil(t, mux)
	for _, task := range []string{TaskSweepExpired, TaskCloseExpiredGrace, TaskDispatchOutbox} {
		_, pattern := mux.Handler(asynq.NewTask(task, nil))
		assert.Equal(t, task, pattern)
	}
}
