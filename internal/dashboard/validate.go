package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps request fields to readable problems.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	messages := make([]string, 0, len(fields))
	for _, f := range fields {
		messages = append(messages, fmt.Sprintf("%s: %s", f, e.Errors[f]))
	}
	return "validation failed: " + strings.Join(messages, ", ")
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(selectionStructLevel, Selection{})
	return v
}

// selectionStructLevel requires the fields the chosen mode reads.
func selectionStructLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(Selection)
	switch s.Mode {
	case ModeDate:
		if s.Date == "" {
			sl.ReportError(s.Date, "date", "Date", "required_for_mode", s.Mode)
		}
	case ModeRange:
		if s.Start == "" {
			sl.ReportError(s.Start, "start", "Start", "required_for_mode", s.Mode)
		}
		if s.End == "" {
			sl.ReportError(s.End, "end", "End", "required_for_mode", s.Mode)
		}
	case ModeMonth:
		if s.Month == 0 {
			sl.ReportError(s.Month, "month", "Month", "required_for_mode", s.Mode)
		}
	}
}

func (s *Service) validate(req any) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), reflect.Indirect(reflect.ValueOf(req)).Type().Name()+".")
		switch fe.Tag() {
		case "required":
			out[field] = "is required"
		case "required_for_mode":
			out[field] = fmt.Sprintf("is required when mode is %q", fe.Param())
		case "oneof":
			out[field] = fmt.Sprintf("must be one of [%s]", fe.Param())
		case "datetime":
			out[field] = "must be a date formatted YYYY-MM-DD"
		case "min":
			out[field] = fmt.Sprintf("must be at least %s", fe.Param())
		case "max":
			out[field] = fmt.Sprintf("must be at most %s", fe.Param())
		default:
			out[field] = "is invalid"
		}
	}
	return &ValidationError{Errors: out}
}
