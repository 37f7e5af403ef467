package ordersvc

import (
	"github.com/spf13/viper"

	"github.com/kashan660/sellaap-orders/internal/service/models/paymentmethod"
)

// Limits holds the numeric ceilings and the tolerance applied during
// order intake. They are configuration constants, not computed values.
type Limits struct {
	MaxTotalCents     int64
	MaxItemPriceCents int64
	MaxItemQuantity   int
	ToleranceBps      int64
	PaymentMethods    []paymentmethod.Method
}

// DefaultLimits returns the limits used when configuration is absent.
func DefaultLimits() Limits {
	return Limits{
		MaxTotalCents:     100_000_00,
		MaxItemPriceCents: 10_000_00,
		MaxItemQuantity:   1_000,
		ToleranceBps:      100,
		PaymentMethods:    paymentmethod.Defaults(),
	}
}

// LimitsFromConfig reads limits from viper, falling back to defaults for
// unset keys.
func LimitsFromConfig() Limits {
	limits := DefaultLimits()

	if v := viper.GetInt64("checkout.max_total_cents"); v > 0 {
		limits.MaxTotalCents = v
	}

	if v := viper.GetInt64("checkout.max_item_price_cents"); v > 0 {
		limits.MaxItemPriceCents = v
	}

	if v := viper.GetInt("checkout.max_item_quantity"); v > 0 {
		limits.MaxItemQuantity = v
	}

	if v := viper.GetInt64("checkout.tolerance_bps"); v > 0 {
		limits.ToleranceBps = v
	}

	if tags := viper.GetStringSlice("checkout.payment_methods"); len(tags) > 0 {
		methods := make([]paymentmethod.Method, 0, len(tags))
		for _, tag := range tags {
			methods = append(methods, paymentmethod.Method(tag))
		}
		limits.PaymentMethods = methods
	}

	return limits
}
