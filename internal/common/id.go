package common

import (
	"github.com/google/uuid"
)

// NewSwitchID generates a unique switch operation ID with the "swt_" prefix
// Format: swt_<uuid>
func NewSwitchID() string {
	return "swt_" + uuid.New().String()
}
