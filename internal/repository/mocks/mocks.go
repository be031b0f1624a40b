// Package mocks provides testify mocks of the repository interfaces for
// service-level tests.
package mocks

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// ProductRepository is a mock implementation of repository.ProductRepository.
type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// OrderRepository is a mock implementation of repository.OrderRepository.
type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *OrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *OrderRepository) LockStatus(ctx context.Context, tx pgx.Tx, orderID string) (model.OrderStatus, error) {
	args := m.Called(ctx, tx, orderID)
	return args.Get(0).(model.OrderStatus), args.Error(1)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, tx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepository) AppendStatusRecord(ctx context.Context, tx pgx.Tx, record *model.OrderStatusRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *OrderRepository) GetByID(ctx context.Context, id string) (*model.Order, []model.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.OrderItem), args.Error(2)
}

func (m *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *OrderRepository) StatusHistory(ctx context.Context, orderID string) ([]model.OrderStatusRecord, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderStatusRecord), args.Error(1)
}

// OutboxRepository is a mock implementation of repository.OutboxRepository.
type OutboxRepository struct {
	mock.Mock
}

func (m *OutboxRepository) Enqueue(ctx context.Context, tx pgx.Tx, event *model.OutboxEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *OutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OutboxEvent), args.Error(1)
}

func (m *OutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Transactor is a mock implementation of repository.Transactor.
type Transactor struct {
	mock.Mock
}

func (m *Transactor) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	args := m.Called(ctx)
	if uow, ok := args.Get(0).(repository.UnitOfWork); ok {
		return uow, args.Error(1)
	}
	return nil, args.Error(1)
}

// UnitOfWork is a mock implementation of repository.UnitOfWork. Tx returns
// nil; repositories used with it are expected to be mocks as well.
type UnitOfWork struct {
	mock.Mock
}

func (m *UnitOfWork) Tx() pgx.Tx {
	return nil
}

func (m *UnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// NewUnitOfWork returns a Transactor handing out a single UnitOfWork.
func NewUnitOfWork() (*Transactor, *UnitOfWork) {
	uow := &UnitOfWork{}
	tr := &Transactor{}
	tr.On("Begin", mock.Anything).Return(uow, nil)
	return tr, uow
}
