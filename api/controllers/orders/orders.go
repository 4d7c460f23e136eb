package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/orderdesk-backend/api/middleware"
	"github.com/angelmondragon/orderdesk-backend/api/responses"
	"github.com/angelmondragon/orderdesk-backend/api/validators"
	internalorders "github.com/angelmondragon/orderdesk-backend/internal/orders"
	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk-backend/pkg/errors"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
	"github.com/angelmondragon/orderdesk-backend/pkg/pagination"
)

type updateStatusRequest struct {
	Status  string  `json:"status" validate:"required"`
	Message *string `json:"message" validate:"omitempty,max=2000"`
}

type createItemRequest struct {
	Name       string  `json:"name" validate:"required,min=1"`
	Quantity   *int    `json:"quantity" validate:"omitempty,min=1"`
	PriceCents *int64  `json:"price_cents" validate:"omitempty,min=0"`
	Notes      *string `json:"notes" validate:"omitempty,max=1000"`
}

type createOrderRequest struct {
	CustomerName  *string             `json:"customer_name" validate:"omitempty,min=1"`
	CustomerEmail *string             `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone *string             `json:"customer_phone" validate:"omitempty,min=7"`
	PickupTime    *time.Time          `json:"pickup_time"`
	Notes         *string             `json:"notes" validate:"omitempty,max=5000"`
	Items         []createItemRequest `json:"items" validate:"omitempty,dive"`
}

// List returns orders newest first, optionally filtered by status.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := internalorders.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter").
					WithDetails(map[string]any{"field": "status"}))
				return
			}
			params.Status = &status
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Detail returns one order with its items and audit trail.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateStatus moves an order to a new status on behalf of the caller.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
				WithDetails(map[string]any{"field": "status"}))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID.String())
		}

		order, err := svc.UpdateStatus(ctx, internalorders.UpdateStatusInput{
			OrderID: orderID,
			Status:  status,
			Message: req.Message,
			Actor:   actorFrom(principal),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Create stores an order keyed in from the dashboard.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.CreateOrderInput{
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			PickupTime:    req.PickupTime,
			Notes:         req.Notes,
			Items:         make([]internalorders.CreateOrderItemInput, 0, len(req.Items)),
			Actor:         actorFrom(principal),
		}
		for _, item := range req.Items {
			line := internalorders.CreateOrderItemInput{
				Name:     item.Name,
				Quantity: 1,
				Notes:    item.Notes,
			}
			if item.Quantity != nil {
				line.Quantity = *item.Quantity
			}
			if item.PriceCents != nil {
				line.PriceCents = *item.PriceCents
			}
			input.Items = append(input.Items, line)
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func actorFrom(p middleware.Principal) internalorders.Actor {
	return internalorders.Actor{UserID: p.UserID, Email: p.Email, Role: p.Role}
}
