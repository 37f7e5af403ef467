package ordersvc

import "errors"

// Rejection reasons form a closed set. Every failure of SubmitOrder wraps
// exactly one of these, so callers can map rejections to precise
// user-facing messages. All of them except ErrPersistence are detected
// before any write and are safe to retry after correcting input;
// ErrPersistence means validation already passed and the caller may retry
// the submission as-is.
var (
	ErrNotAuthenticated     = errors.New("actor is not authenticated")
	ErrEmptyCart            = errors.New("cart is empty, nothing to submit")
	ErrInvalidTotal         = errors.New("declared total is out of range")
	ErrInvalidPaymentMethod = errors.New("payment method is not supported")
	ErrInvalidItemData      = errors.New("cart line is malformed")
	ErrInvalidQuantity      = errors.New("cart line quantity is out of range")
	ErrInvalidPrice         = errors.New("cart line price is out of range")
	ErrItemNotFound         = errors.New("cart line references an unknown product")
	ErrPriceMismatch        = errors.New("declared price deviates from the catalog price")
	ErrTotalMismatch        = errors.New("declared total deviates from the recomputed total")
	ErrPersistence          = errors.New("failed to persist order")
)

// Administrative errors for the status transition, outside the intake
// taxonomy.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("illegal order status transition")
)
