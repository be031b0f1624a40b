package orderstatus

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/repository/mocks"
	"storefront/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	admin    = session.Session{CustomerID: "admin-1", Role: session.RoleAdmin}
	customer = session.Session{CustomerID: "cust-1", Role: session.RoleCustomer}
	fixedNow = time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC)
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.OrderStatus
		wantErr  error
	}{
		{model.StatusPending, model.StatusProcessing, nil},
		{model.StatusProcessing, model.StatusShipped, nil},
		{model.StatusShipped, model.StatusDelivered, nil},
		{model.StatusPending, model.StatusCancelled, nil},
		{model.StatusProcessing, model.StatusCancelled, nil},
		{model.StatusShipped, model.StatusCancelled, nil},
		{model.StatusPending, model.StatusShipped, model.ErrIllegalTransition},
		{model.StatusProcessing, model.StatusDelivered, model.ErrIllegalTransition},
		{model.StatusShipped, model.StatusProcessing, model.ErrIllegalTransition},
		{model.StatusProcessing, model.StatusPending, model.ErrIllegalTransition},
		{model.StatusProcessing, model.StatusProcessing, model.ErrIllegalTransition},
		{model.StatusProcessing, model.OrderStatus("LOST"), model.ErrIllegalTransition},
		{model.StatusDelivered, model.StatusCancelled, model.ErrTerminalStatus},
		{model.StatusDelivered, model.StatusShipped, model.ErrTerminalStatus},
		{model.StatusCancelled, model.StatusProcessing, model.ErrTerminalStatus},
		{model.StatusCancelled, model.StatusCancelled, model.ErrTerminalStatus},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func newTestMachine() (*Machine, *mocks.Transactor, *mocks.UnitOfWork, *mocks.OrderRepository, *mocks.OutboxRepository) {
	tr, uow := mocks.NewUnitOfWork()
	orders := &mocks.OrderRepository{}
	outbox := &mocks.OutboxRepository{}
	m := NewMachine(tr, orders, outbox, zerolog.Nop())
	m.now = func() time.Time { return fixedNow }
	return m, tr, uow, orders, outbox
}

func TestMachine_Transition_Success(t *testing.T) {
	ctx := context.Background()
	m, _, uow, orders, outbox := newTestMachine()

	orders.On("LockStatus", ctx, mock.Anything, "ORD-1").Return(model.StatusProcessing, nil)
	orders.On("UpdateStatus", ctx, mock.Anything, "ORD-1", model.StatusShipped).Return(nil)
	orders.On("AppendStatusRecord", ctx, mock.Anything, mock.MatchedBy(func(r *model.OrderStatusRecord) bool {
		return r.OrderID == "ORD-1" && r.Status == model.StatusShipped && r.Notes == "DHL 123" && r.UpdateTime.Equal(fixedNow)
	})).Return(nil)
	outbox.On("Enqueue", ctx, mock.Anything, mock.MatchedBy(func(e *model.OutboxEvent) bool {
		return e.EventType == events.OrderStatusChanged && e.AggregateID == "ORD-1"
	})).Return(nil)
	uow.On("Commit", ctx).Return(nil)

	record, err := m.Transition(ctx, admin, "ORD-1", model.StatusShipped, "  DHL 123 ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, record.Status)
	assert.Equal(t, "DHL 123", record.Notes)

	orders.AssertExpectations(t)
	outbox.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestMachine_Transition_FromDeliveredAppendsNothing(t *testing.T) {
	targets := []model.OrderStatus{
		model.StatusPending, model.StatusProcessing, model.StatusShipped, model.StatusDelivered, model.StatusCancelled,
	}

	for _, target := range targets {
		t.Run(string(target), func(t *testing.T) {
			ctx := context.Background()
			m, _, uow, orders, outbox := newTestMachine()

			orders.On("LockStatus", ctx, mock.Anything, "ORD-9").Return(model.StatusDelivered, nil)
			uow.On("Rollback", ctx).Return(nil)

			record, err := m.Transition(ctx, admin, "ORD-9", target, "")

			require.ErrorIs(t, err, model.ErrTerminalStatus)
			assert.Nil(t, record)
			orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			orders.AssertNotCalled(t, "AppendStatusRecord", mock.Anything, mock.Anything, mock.Anything)
			outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
			uow.AssertCalled(t, "Rollback", ctx)
			uow.AssertNotCalled(t, "Commit", mock.Anything)
		})
	}
}

func TestMachine_Transition_RejectedBeforeIO(t *testing.T) {
	tests := []struct {
		name    string
		sess    session.Session
		target  model.OrderStatus
		checkFn func(t *testing.T, err error)
	}{
		{
			name:   "customer session",
			sess:   customer,
			target: model.StatusShipped,
			checkFn: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, model.ErrForbidden)
			},
		},
		{
			name:   "missing target",
			sess:   admin,
			target: "",
			checkFn: func(t *testing.T, err error) {
				var verr *model.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "status", verr.Field)
			},
		},
		{
			name:   "unknown target",
			sess:   admin,
			target: "RETURNED",
			checkFn: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, model.ErrIllegalTransition)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, tr, _, orders, _ := newTestMachine()

			_, err := m.Transition(context.Background(), tt.sess, "ORD-1", tt.target, "")

			tt.checkFn(t, err)
			tr.AssertNotCalled(t, "Begin", mock.Anything)
			orders.AssertNotCalled(t, "LockStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMachine_Transition_SameStatus(t *testing.T) {
	ctx := context.Background()
	m, _, uow, orders, _ := newTestMachine()

	orders.On("LockStatus", ctx, mock.Anything, "ORD-1").Return(model.StatusShipped, nil)
	uow.On("Rollback", ctx).Return(nil)

	_, err := m.Transition(ctx, admin, "ORD-1", model.StatusShipped, "")
	require.ErrorIs(t, err, model.ErrIllegalTransition)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMachine_Transition_OrderNotFound(t *testing.T) {
	ctx := context.Background()
	m, _, uow, orders, _ := newTestMachine()

	orders.On("LockStatus", ctx, mock.Anything, "ORD-missing").Return(model.OrderStatus(""), model.ErrOrderNotFound)
	uow.On("Rollback", ctx).Return(nil)

	_, err := m.Transition(ctx, admin, "ORD-missing", model.StatusCancelled, "")
	require.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestMachine_Transition_WriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	m, _, uow, orders, outbox := newTestMachine()

	orders.On("LockStatus", ctx, mock.Anything, "ORD-1").Return(model.StatusPending, nil)
	orders.On("UpdateStatus", ctx, mock.Anything, "ORD-1", model.StatusCancelled).Return(nil)
	orders.On("AppendStatusRecord", ctx, mock.Anything, mock.Anything).Return(errors.New("disk full"))
	uow.On("Rollback", ctx).Return(nil)

	_, err := m.Transition(ctx, admin, "ORD-1", model.StatusCancelled, "customer request")

	var perr *model.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Retryable())
	uow.AssertCalled(t, "Rollback", ctx)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestMachine_History(t *testing.T) {
	ctx := context.Background()
	m, _, _, orders, _ := newTestMachine()

	history := []model.OrderStatusRecord{
		{OrderID: "ORD-1", Status: model.StatusProcessing, UpdateTime: fixedNow},
		{OrderID: "ORD-1", Status: model.StatusShipped, UpdateTime: fixedNow.Add(time.Hour)},
	}
	orders.On("StatusHistory", ctx, "ORD-1").Return(history, nil)
	orders.On("StatusHistory", ctx, "ORD-2").Return(nil, errors.New("timeout"))

	got, err := m.History(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, history, got)

	_, err = m.History(ctx, "ORD-2")
	var perr *model.PersistenceError
	assert.ErrorAs(t, err, &perr)
}
