package schema

import (
	"strings"
	"time"
)

// HeaderSectionName is the form section holding the inspection header.
const HeaderSectionName = "معلومات أساسية"

// HeaderDateLayout is the date format of the header date field.
const HeaderDateLayout = "2006-01-02"

// InspectionHeader is the basic information block above the checklist.
// Field order matches the order in which missing fields are reported.
type InspectionHeader struct {
	PlateNumber     string `json:"plate_number" yaml:"plate_number" validate:"required"`
	Date            string `json:"date" yaml:"date" validate:"required"`
	OperationNumber string `json:"operation_number" yaml:"operation_number" validate:"required"`
	SeatCount       string `json:"seat_count" yaml:"seat_count" validate:"required"`
	SchoolName      string `json:"school_name" yaml:"school_name" validate:"required"`
	Odometer        string `json:"odometer" yaml:"odometer" validate:"required"`
}

// headerLabels maps header struct fields to their form labels.
var headerLabels = map[string]string{
	"PlateNumber":     "رقم اللوحة",
	"Date":            "التاريخ",
	"OperationNumber": "رقم التشغيل",
	"SeatCount":       "عدد المقاعد",
	"SchoolName":      "اسم المدرسة",
	"Odometer":        "عدد الكيلومتر",
}

// HeaderLabel returns the form label of a header struct field.
func HeaderLabel(field string) string {
	if label, ok := headerLabels[field]; ok {
		return label
	}
	return field
}

// NewInspectionHeader returns an empty header dated today.
func NewInspectionHeader(now time.Time) InspectionHeader {
	return InspectionHeader{Date: now.Format(HeaderDateLayout)}
}

// Merge overwrites fields of h with the non-empty fields of other.
func (h InspectionHeader) Merge(other InspectionHeader) InspectionHeader {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&h.PlateNumber, other.PlateNumber)
	set(&h.Date, other.Date)
	set(&h.OperationNumber, other.OperationNumber)
	set(&h.SeatCount, other.SeatCount)
	set(&h.SchoolName, other.SchoolName)
	set(&h.Odometer, other.Odometer)
	return h
}

var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// NormalizeDigits converts Arabic-Indic digits to ASCII and trims the numeric
// header fields.
func (h InspectionHeader) NormalizeDigits() InspectionHeader {
	h.OperationNumber = strings.TrimSpace(arabicDigits.Replace(h.OperationNumber))
	h.SeatCount = strings.TrimSpace(arabicDigits.Replace(h.SeatCount))
	h.Odometer = strings.TrimSpace(arabicDigits.Replace(h.Odometer))
	return h
}
