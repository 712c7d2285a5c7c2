package enums

import "fmt"

// PaymentMethod describes how a buyer intends to settle a sale. Wire values
// match the upstream sales API.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "EFECTIVO"
	PaymentMethodOnline       PaymentMethod = "MERCADOPAGO"
	PaymentMethodQR           PaymentMethod = "QR"
	PaymentMethodCardTerminal PaymentMethod = "TARJETA"
	PaymentMethodTransfer     PaymentMethod = "TRANSFERENCIA"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodOnline,
	PaymentMethodQR,
	PaymentMethodCardTerminal,
	PaymentMethodTransfer,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
