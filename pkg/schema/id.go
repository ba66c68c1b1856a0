package schema

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewEventID generates a new event ID in format EVT-{nanoid(10)}.
func NewEventID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EVT-%s", id), nil
}

// NewInspectionID generates a new inspection ID in format INS-{uuid}.
func NewInspectionID() string {
	return "INS-" + uuid.NewString()
}

// NewReportID generates a new report ID in format RPT-{uuid}.
func NewReportID() string {
	return "RPT-" + uuid.NewString()
}
