package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOrderResponse() *model.OrderResponse {
	orderID := "ORD-0192f8a4-3b1e-7c2d-9a5b-6e7f8a9b0c1d"
	return &model.OrderResponse{
		Order: model.Order{
			ID:              orderID,
			CustomerID:      customer.CustomerID,
			CustomerName:    "Abebe Kebede",
			CustomerEmail:   "abebe@example.com",
			CustomerPhone:   "0912345678",
			ShippingAddress: "Bole, Addis Ababa",
			PaymentMethod:   model.PaymentTeleBirr,
			Currency:        "USD",
			ShippingFee:     decimal.NewFromInt(25),
			TotalAmount:     decimal.NewFromInt(225),
			Status:          model.StatusProcessing,
			CreatedAt:       time.Now().UTC(),
		},
		Items: []model.OrderItem{
			{OrderID: orderID, ProductID: "P001", ProductName: "Teff Flour", UnitPrice: decimal.NewFromInt(100), Quantity: 2, Subtotal: decimal.NewFromInt(200)},
		},
		DisplayTotal:       "$225.00",
		DisplayShippingFee: "$25.00",
	}
}

func validCheckoutRequest() model.CheckoutRequest {
	return model.CheckoutRequest{
		FullName:      "Abebe Kebede",
		Email:         "abebe@example.com",
		Phone:         "0912345678",
		Address:       "Bole, Addis Ababa",
		PaymentMethod: model.PaymentTeleBirr,
	}
}

func TestOrderHandler_Checkout(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			body:           validCheckoutRequest(),
			mockReturn:     testOrderResponse(),
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Validation error",
			body:           validCheckoutRequest(),
			mockError:      model.NewValidationError("phone", "invalid phone number"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Empty cart",
			body:           validCheckoutRequest(),
			mockError:      model.ErrEmptyCart,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Commit failure",
			body:           validCheckoutRequest(),
			mockError:      &model.PersistenceError{Op: "commit order", Err: errors.New("duplicate key")},
			expectedStatus: http.StatusServiceUnavailable,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           "invalid",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			if tt.expectService {
				var ret interface{}
				if tt.mockReturn != nil {
					ret = tt.mockReturn
				}
				mockService.On("Checkout", mock.Anything, customer, tt.body).Return(ret, tt.mockError)
			}

			var body []byte
			if s, ok := tt.body.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}

			h := NewOrderHandler(mockService, new(MockOrderService), zerolog.Nop())
			req := withRequestContext(httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewBuffer(body)), &customer, nil)
			w := httptest.NewRecorder()

			h.Checkout(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.mockReturn != nil {
				var resp model.OrderResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.mockReturn.Order.ID, resp.Order.ID)
				assert.Equal(t, "$225.00", resp.DisplayTotal)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus model.OrderStatus
		expectedLimit  int
		expectedOffset int
		responseCode   int
		expectService  bool
	}{
		{name: "All orders", expectedLimit: 10, responseCode: http.StatusOK, expectService: true},
		{name: "Filter by status", query: "?status=SHIPPED&limit=20", expectedStatus: model.StatusShipped, expectedLimit: 20, responseCode: http.StatusOK, expectService: true},
		{name: "Unknown status", query: "?status=LOST", responseCode: http.StatusBadRequest},
		{name: "Invalid offset", query: "?offset=x", responseCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectService {
				mockService.On("List", mock.Anything, admin, tt.expectedStatus, tt.expectedLimit, tt.expectedOffset).
					Return([]model.Order{testOrderResponse().Order}, nil)
			}

			h := NewOrderHandler(new(MockCheckoutService), mockService, zerolog.Nop())
			req := withRequestContext(httptest.NewRequest(http.MethodGet, "/api/orders"+tt.query, nil), &admin, nil)
			w := httptest.NewRecorder()

			h.List(w, req)

			assert.Equal(t, tt.responseCode, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
	}{
		{name: "Success", mockReturn: testOrderResponse(), expectedStatus: http.StatusOK},
		{name: "Not found", mockError: model.ErrOrderNotFound, expectedStatus: http.StatusNotFound},
		{name: "Service error", mockError: errors.New("database error"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderID := "ORD-0192f8a4-3b1e-7c2d-9a5b-6e7f8a9b0c1d"
			mockService := new(MockOrderService)
			var ret interface{}
			if tt.mockReturn != nil {
				ret = tt.mockReturn
			}
			mockService.On("GetByID", mock.Anything, customer, orderID).Return(ret, tt.mockError)

			h := NewOrderHandler(new(MockCheckoutService), mockService, zerolog.Nop())
			req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID, nil)
			req = withRequestContext(req, &customer, map[string]string{"id": orderID})
			w := httptest.NewRecorder()

			h.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_History(t *testing.T) {
	orderID := "ORD-0192f8a4-3b1e-7c2d-9a5b-6e7f8a9b0c1d"
	records := []model.OrderStatusRecord{
		{OrderID: orderID, Status: model.StatusProcessing, UpdateTime: time.Now().UTC(), Notes: "Order placed"},
		{OrderID: orderID, Status: model.StatusShipped, UpdateTime: time.Now().UTC()},
	}

	mockService := new(MockOrderService)
	mockService.On("History", mock.Anything, customer, orderID).Return(records, nil)

	h := NewOrderHandler(new(MockCheckoutService), mockService, zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID+"/history", nil)
	req = withRequestContext(req, &customer, map[string]string{"id": orderID})
	w := httptest.NewRecorder()

	h.History(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []model.OrderStatusRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, model.StatusShipped, got[1].Status)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	orderID := "ORD-0192f8a4-3b1e-7c2d-9a5b-6e7f8a9b0c1d"

	tests := []struct {
		name           string
		body           string
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{name: "Success", body: `{"status":"SHIPPED","notes":"Courier picked up"}`, expectedStatus: http.StatusOK, expectService: true},
		{name: "Terminal status", body: `{"status":"SHIPPED"}`, mockError: model.ErrTerminalStatus, expectedStatus: http.StatusConflict, expectService: true},
		{name: "Illegal transition", body: `{"status":"PENDING"}`, mockError: model.ErrIllegalTransition, expectedStatus: http.StatusConflict, expectService: true},
		{name: "Forbidden", body: `{"status":"SHIPPED"}`, mockError: model.ErrForbidden, expectedStatus: http.StatusForbidden, expectService: true},
		{name: "Invalid JSON", body: `status=SHIPPED`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectService {
				var update model.StatusUpdateRequest
				require.NoError(t, json.Unmarshal([]byte(tt.body), &update))

				var ret interface{}
				if tt.mockError == nil {
					ret = &model.OrderStatusRecord{OrderID: orderID, Status: update.Status, UpdateTime: time.Now().UTC(), Notes: update.Notes}
				}
				mockService.On("UpdateStatus", mock.Anything, admin, orderID, update).Return(ret, tt.mockError)
			}

			h := NewOrderHandler(new(MockCheckoutService), mockService, zerolog.Nop())
			req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID+"/status", bytes.NewBufferString(tt.body))
			req = withRequestContext(req, &admin, map[string]string{"id": orderID})
			w := httptest.NewRecorder()

			h.UpdateStatus(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var record model.OrderStatusRecord
				require.NoError(t, json.NewDecoder(w.Body).Decode(&record))
				assert.Equal(t, model.StatusShipped, record.Status)
			}
			mockService.AssertExpectations(t)
		})
	}
}
