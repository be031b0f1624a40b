package handler

import (
	"context"
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

var (
	customer = session.Session{CustomerID: "C-1", Name: "Abebe", Role: session.RoleCustomer}
	admin    = session.Session{CustomerID: "A-1", Name: "Operator", Role: session.RoleAdmin}
)

// withRequestContext attaches a session and chi URL params to req.
func withRequestContext(req *http.Request, sess *session.Session, params map[string]string) *http.Request {
	ctx := req.Context()
	if sess != nil {
		ctx = session.NewContext(ctx, *sess)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) view(args mock.Arguments) (*service.CartView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) View(ctx context.Context, sess session.Session, currency string) (*service.CartView, error) {
	return m.view(m.Called(ctx, sess, currency))
}

func (m *MockCartService) AddItem(ctx context.Context, sess session.Session, productID, currency string) (*service.CartView, error) {
	return m.view(m.Called(ctx, sess, productID, currency))
}

func (m *MockCartService) SetQuantity(ctx context.Context, sess session.Session, productID string, qty int, currency string) (*service.CartView, error) {
	return m.view(m.Called(ctx, sess, productID, qty, currency))
}

func (m *MockCartService) RemoveItem(ctx context.Context, sess session.Session, productID, currency string) (*service.CartView, error) {
	return m.view(m.Called(ctx, sess, productID, currency))
}

func (m *MockCartService) Clear(ctx context.Context, sess session.Session) error {
	return m.Called(ctx, sess).Error(0)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, sess session.Session, req model.CheckoutRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetByID(ctx context.Context, sess session.Session, id string) (*model.OrderResponse, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, sess session.Session, status model.OrderStatus, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, sess, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) History(ctx context.Context, sess session.Session, id string) ([]model.OrderStatusRecord, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderStatusRecord), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, sess session.Session, id string, req model.StatusUpdateRequest) (*model.OrderStatusRecord, error) {
	args := m.Called(ctx, sess, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderStatusRecord), args.Error(1)
}
