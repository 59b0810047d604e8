package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// BillStatus represents the payment state of a bill. Open bills still carry
// a remaining balance; cleared is terminal.
type BillStatus int

const (
	BillStatusOpen    BillStatus = 0
	BillStatusCleared BillStatus = 1
)

func (s BillStatus) String() string {
	return [...]string{"Open", "Cleared"}[s]
}

func (s BillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BillStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = BillStatus(i)
		return nil
	}
	switch str {
	case "Open":
		*s = BillStatusOpen
	case "Cleared":
		*s = BillStatusCleared
	}
	return nil
}

func (s BillStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *BillStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BillStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = BillStatus(v)
	case int:
		*s = BillStatus(v)
	}
	return nil
}
