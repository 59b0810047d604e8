package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents how a payment was received
type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = iota
	PaymentMethodBankTransfer
	PaymentMethodJazzCash
	PaymentMethodEasyPaisa
	PaymentMethodPending
)

var paymentMethodNames = [...]string{"Cash", "Bank Transfer", "JazzCash", "EasyPaisa", "Pending"}

func (m PaymentMethod) String() string {
	if !m.IsValid() {
		return "Unknown"
	}
	return paymentMethodNames[m]
}

// IsValid reports whether the value is one of the known methods
func (m PaymentMethod) IsValid() bool {
	return m >= PaymentMethodCash && m <= PaymentMethodPending
}

// RequiresDetail reports whether the method needs an accompanying detail
// string: the receiver's name for cash, the transaction reference for bank
// transfers. The mobile wallets and the pending marker carry none.
func (m PaymentMethod) RequiresDetail() bool {
	return m == PaymentMethodCash || m == PaymentMethodBankTransfer
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	for i, name := range paymentMethodNames {
		if name == str {
			*m = PaymentMethod(i)
			return nil
		}
	}
	// Unknown names decode to an invalid value so validation rejects them
	*m = PaymentMethod(-1)
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
