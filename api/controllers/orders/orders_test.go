package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/orderdesk-backend/api/middleware"
	internalorders "github.com/angelmondragon/orderdesk-backend/internal/orders"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk-backend/pkg/errors"
	"github.com/angelmondragon/orderdesk-backend/pkg/types"
)

type stubOrdersService struct {
	listParams   *internalorders.ListParams
	getErr       error
	updateInput  *internalorders.UpdateStatusInput
	createInput  *internalorders.CreateOrderInput
	createResult *internalorders.OrderDTO
	createErr    error
}

func (s *stubOrdersService) List(_ context.Context, params internalorders.ListParams) (*internalorders.OrderList, error) {
	s.listParams = &params
	return &internalorders.OrderList{Orders: []internalorders.OrderDTO{}}, nil
}

func (s *stubOrdersService) Get(_ context.Context, orderID uuid.UUID) (*internalorders.OrderDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &internalorders.OrderDTO{ID: orderID}, nil
}

func (s *stubOrdersService) UpdateStatus(_ context.Context, input internalorders.UpdateStatusInput) (*internalorders.OrderDTO, error) {
	s.updateInput = &input
	return &internalorders.OrderDTO{ID: input.OrderID, Status: input.Status}, nil
}

func (s *stubOrdersService) Create(_ context.Context, input internalorders.CreateOrderInput) (*internalorders.OrderDTO, error) {
	s.createInput = &input
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.createResult != nil {
		return s.createResult, nil
	}
	return &internalorders.OrderDTO{ID: uuid.New()}, nil
}

func newRouter(svc internalorders.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/orders", List(svc, nil))
	r.Post("/orders", Create(svc, nil))
	r.Get("/orders/{orderId}", Detail(svc, nil))
	r.Patch("/orders/{orderId}/status", UpdateStatus(svc, nil))
	return r
}

func serve(t *testing.T, h http.Handler, method, path, body string, principal *middleware.Principal) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if principal != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), *principal))
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func staff() *middleware.Principal {
	return &middleware.Principal{UserID: uuid.New(), Email: "staff@example.com", Role: enums.StaffRoleStaff}
}

func TestListParsesFilters(t *testing.T) {
	svc := &stubOrdersService{}
	resp := serve(t, newRouter(svc), http.MethodGet, "/orders?status=ready&limit=10&cursor=abc", "", staff())

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.listParams)
	assert.Equal(t, 10, svc.listParams.Limit)
	assert.Equal(t, "abc", svc.listParams.Cursor)
	require.NotNil(t, svc.listParams.Status)
	assert.Equal(t, enums.OrderStatusReady, *svc.listParams.Status)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := &stubOrdersService{}
	resp := serve(t, newRouter(svc), http.MethodGet, "/orders?status=SHIPPED", "", staff())

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), errorCode(t, resp))
	assert.Nil(t, svc.listParams)
}

func TestDetail(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		resp := serve(t, newRouter(&stubOrdersService{}), http.MethodGet, "/orders/nope", "", staff())
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubOrdersService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
		resp := serve(t, newRouter(svc), http.MethodGet, "/orders/"+uuid.NewString(), "", staff())
		require.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, string(pkgerrors.CodeNotFound), errorCode(t, resp))
	})
}

func TestUpdateStatus(t *testing.T) {
	orderID := uuid.New()

	t.Run("passes actor and message", func(t *testing.T) {
		svc := &stubOrdersService{}
		who := staff()
		resp := serve(t, newRouter(svc), http.MethodPatch, "/orders/"+orderID.String()+"/status", `{"status":"accepted","message":"on it"}`, who)

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, svc.updateInput)
		assert.Equal(t, orderID, svc.updateInput.OrderID)
		assert.Equal(t, enums.OrderStatusAccepted, svc.updateInput.Status)
		assert.Equal(t, "on it", *svc.updateInput.Message)
		assert.Equal(t, who.UserID, svc.updateInput.Actor.UserID)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := &stubOrdersService{}
		resp := serve(t, newRouter(svc), http.MethodPatch, "/orders/"+orderID.String()+"/status", `{"status":"LOST"}`, staff())
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Nil(t, svc.updateInput)
	})

	t.Run("missing principal", func(t *testing.T) {
		resp := serve(t, newRouter(&stubOrdersService{}), http.MethodPatch, "/orders/"+orderID.String()+"/status", `{"status":"READY"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestCreate(t *testing.T) {
	admin := &middleware.Principal{UserID: uuid.New(), Email: "admin@example.com", Role: enums.StaffRoleAdmin}

	t.Run("defaults quantity and price", func(t *testing.T) {
		svc := &stubOrdersService{}
		body := `{"customer_name":"Dana","pickup_time":"2026-01-09T15:45:00Z","items":[{"name":"Nugget Tray"},{"name":"Lemonade","quantity":3,"price_cents":500}]}`
		resp := serve(t, newRouter(svc), http.MethodPost, "/orders", body, admin)

		require.Equal(t, http.StatusCreated, resp.Code)
		require.NotNil(t, svc.createInput)
		require.Len(t, svc.createInput.Items, 2)
		assert.Equal(t, 1, svc.createInput.Items[0].Quantity)
		assert.EqualValues(t, 0, svc.createInput.Items[0].PriceCents)
		assert.Equal(t, 3, svc.createInput.Items[1].Quantity)
		assert.EqualValues(t, 500, svc.createInput.Items[1].PriceCents)
		assert.Equal(t, enums.StaffRoleAdmin, svc.createInput.Actor.Role)
		require.NotNil(t, svc.createInput.PickupTime)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := &stubOrdersService{}
		resp := serve(t, newRouter(svc), http.MethodPost, "/orders", `{"customer_email":"not-an-email"}`, admin)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Nil(t, svc.createInput)
	})

	t.Run("zero quantity", func(t *testing.T) {
		svc := &stubOrdersService{}
		resp := serve(t, newRouter(svc), http.MethodPost, "/orders", `{"items":[{"name":"Tray","quantity":0}]}`, admin)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("service forbids staff", func(t *testing.T) {
		svc := &stubOrdersService{createErr: pkgerrors.New(pkgerrors.CodeForbidden, "only admins can create orders")}
		resp := serve(t, newRouter(svc), http.MethodPost, "/orders", `{}`, staff())
		require.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, string(pkgerrors.CodeForbidden), errorCode(t, resp))
	})
}
