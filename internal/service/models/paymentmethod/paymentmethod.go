package paymentmethod

import (
	"database/sql/driver"
	"errors"
	"strings"
)

// Method tags an out-of-band settlement channel. The tag is recorded on
// the order for manual reconciliation; nothing here triggers a capture.
type Method string

const (
	MethodPaypal       Method = "paypal"
	MethodPayoneer     Method = "payoneer"
	MethodWise         Method = "wise"
	MethodBankTransfer Method = "bank_transfer"
	MethodCryptoBTC    Method = "crypto_btc"
	MethodCryptoETH    Method = "crypto_eth"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

func (m Method) String() string {
	return string(m)
}

func (m Method) Value() (driver.Value, error) {
	return m.String(), nil
}

// Defaults returns the supported settlement channels used when the
// allow-list is not configured.
func Defaults() []Method {
	return []Method{
		MethodPaypal,
		MethodPayoneer,
		MethodWise,
		MethodBankTransfer,
		MethodCryptoBTC,
		MethodCryptoETH,
	}
}

// Parse matches s against the allowed set, case-insensitively.
func Parse(s string, allowed []Method) (Method, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, m := range allowed {
		if normalized == strings.ToLower(m.String()) {
			return m, nil
		}
	}

	return "", ErrInvalidPaymentMethod
}

// ParseStored reads a tag back from storage. The tag was checked against
// the configured allow-list at submit time and the list may have changed
// since, so any non-empty tag is accepted.
func ParseStored(s string) (Method, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", ErrInvalidPaymentMethod
	}

	return Method(normalized), nil
}
