package submitorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/kashan660/sellaap-orders/internal/service/models/order"
	"github.com/kashan660/sellaap-orders/internal/service/services/ordersvc"
	"github.com/kashan660/sellaap-orders/pkg/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	SubmitOrder(ctx context.Context, req order.SubmitRequest) (*order.Order, error)
}

// lineInSubmitOrderRequest represents a cart line in a submit order request.
// Only the id carries a required tag: a zero quantity or price must reach
// the service so the rejection names the precise reason.
type lineInSubmitOrderRequest struct {
	ProductID int64           `json:"id" validate:"required"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// submitOrderRequest represents a submit order request.
type submitOrderRequest struct {
	Items         []lineInSubmitOrderRequest `json:"items"         validate:"dive"`
	Total         decimal.Decimal            `json:"total"`
	PaymentMethod string                     `json:"paymentMethod"`
}

// Validate validates the submit order request.
func (r *submitOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *submitOrderRequest) toModel(customerID int64) order.SubmitRequest {
	items := make([]order.LineRequest, len(r.Items))
	for i, line := range r.Items {
		items[i] = order.LineRequest{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			DeclaredPrice: line.Price,
		}
	}

	return order.SubmitRequest{
		CustomerID:    customerID,
		Items:         items,
		DeclaredTotal: r.Total,
		PaymentMethod: r.PaymentMethod,
	}
}

// rejection is the wire shape of a rejected submission.
type rejection struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeRejection(w http.ResponseWriter, status int, code string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rejection{Code: code, Error: err.Error()})
}

// reasonOf maps a service error onto its closed reason code and HTTP status.
func reasonOf(err error) (string, int) {
	switch {
	case errors.Is(err, ordersvc.ErrNotAuthenticated):
		return "NOT_AUTHENTICATED", http.StatusUnauthorized
	case errors.Is(err, ordersvc.ErrEmptyCart):
		return "EMPTY_CART", http.StatusBadRequest
	case errors.Is(err, ordersvc.ErrInvalidTotal):
		return "INVALID_TOTAL", http.StatusBadRequest
	case errors.Is(err, ordersvc.ErrInvalidPaymentMethod):
		return "INVALID_PAYMENT_METHOD", http.StatusBadRequest
	case errors.Is(err, ordersvc.ErrInvalidItemData):
		return "INVALID_ITEM_DATA", http.StatusBadRequest
	case errors.Is(err, ordersvc.ErrInvalidQuantity):
		return "INVALID_QUANTITY", http.StatusBadRequest
	case errors.Is(err, ordersvc.ErrInvalidPrice):
		return "INVALID_PRICE", http.StatusBadRequest
	case errors.Is(err, ordersvc.ErrItemNotFound):
		return "ITEM_NOT_FOUND", http.StatusBadRequest
	case errors.Is(err, ordersvc.ErrPriceMismatch):
		return "PRICE_MISMATCH", http.StatusBadRequest
	case errors.Is(err, ordersvc.ErrTotalMismatch):
		return "TOTAL_MISMATCH", http.StatusBadRequest
	default:
		return "PERSISTENCE_FAILURE", http.StatusInternalServerError
	}
}

// SubmitOrder handles the order submission request.
func SubmitOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := submitOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRejection(w, http.StatusBadRequest, "INVALID_ITEM_DATA", err)
		slog.Error("Error decoding request body for submit order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		writeRejection(w, http.StatusBadRequest, "INVALID_ITEM_DATA", err)
		slog.Error("Error validating request body for submit order", "error", err)

		return
	}

	submitted, err := service.SubmitOrder(r.Context(), req.toModel(auth.ActorID(r.Context())))
	if err != nil {
		code, status := reasonOf(err)
		writeRejection(w, status, code, err)
		slog.Error("Order submission rejected", "code", code, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(submitted); err != nil {
		slog.Error("Error sending response for submit order", "error", err)
	}
}
