package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateTemplate validates a checklist template.
func ValidateTemplate(t *Template) error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return describeValidation(err)
	}

	categories := make(map[string]string, len(t.Sections))
	for si, sec := range t.Sections {
		if prev, ok := categories[sec.Category]; ok {
			return fmt.Errorf("S%d: section %q reuses category %q of section %q", si+1, sec.Name, sec.Category, prev)
		}
		categories[sec.Category] = sec.Name

		seen := make(map[string]bool, len(sec.Items))
		for ii, item := range sec.Items {
			id := ItemID{Section: si, Index: ii}
			if seen[item.Name] {
				return fmt.Errorf("%s: duplicate item name %q in section %q", id, item.Name, sec.Name)
			}
			seen[item.Name] = true

			if item.Kind != KindChoice && len(item.Options) > 0 {
				return fmt.Errorf("%s: %s item %q cannot have options", id, item.Kind, item.Name)
			}
			for _, p := range item.PassOptions {
				if !containsString(item.Options, p) {
					return fmt.Errorf("%s: pass option %q is not an option of %q", id, p, item.Name)
				}
			}
			for _, p := range item.Options {
				if IsPlaceholderChoice(p) {
					return fmt.Errorf("%s: option %q of %q is a placeholder", id, p, item.Name)
				}
			}
		}
	}
	return nil
}

// ValidateHeader checks that every header field is filled in and that the
// numeric fields parse. The returned *HeaderError names the first offending field.
func ValidateHeader(h *InspectionHeader) error {
	if field, ok := FirstMissingHeaderField(h); ok {
		return &HeaderError{Field: field, Label: HeaderLabel(field), Message: "required"}
	}

	if _, err := strconv.Atoi(strings.TrimSpace(h.OperationNumber)); err != nil {
		return &HeaderError{Field: "OperationNumber", Label: HeaderLabel("OperationNumber"), Message: "must be a number"}
	}
	return ValidateSeatCount(h.SeatCount)
}

// ValidateSeatCount checks that seats is a whole number within the allowed range.
func ValidateSeatCount(seats string) error {
	n, err := strconv.Atoi(strings.TrimSpace(seats))
	if err != nil || n < SeatCountMin || n > SeatCountMax {
		return &HeaderError{
			Field:   "SeatCount",
			Label:   HeaderLabel("SeatCount"),
			Message: fmt.Sprintf("must be a number between %d and %d", SeatCountMin, SeatCountMax),
		}
	}
	return nil
}

// FirstMissingHeaderField returns the struct field name of the first empty
// header field in form order.
func FirstMissingHeaderField(h *InspectionHeader) (string, bool) {
	trimmed := InspectionHeader{
		PlateNumber:     strings.TrimSpace(h.PlateNumber),
		Date:            strings.TrimSpace(h.Date),
		OperationNumber: strings.TrimSpace(h.OperationNumber),
		SeatCount:       strings.TrimSpace(h.SeatCount),
		SchoolName:      strings.TrimSpace(h.SchoolName),
		Odometer:        strings.TrimSpace(h.Odometer),
	}

	validate := validator.New()
	err := validate.Struct(trimmed)
	if err == nil {
		return "", false
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].StructField(), true
	}
	return "", false
}

// HeaderError reports an invalid inspection header field.
type HeaderError struct {
	Field   string
	Label   string
	Message string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Label, e.Message)
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid template: %s", strings.Join(msgs, "; "))
}

func containsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
