package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateBillNumber generates a unique human-readable bill number
func GenerateBillNumber() string {
	return "BILL-" + strings.ToUpper(uuid.New().String()[:8])
}
