package auth

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationError lists every rejected field. It matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))

	for _, f := range e.Fields {
		p := f.Field + " " + f.Tag
		if f.Param != "" {
			p += "=" + f.Param
		}

		parts = append(parts, p)
	}

	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validate checks the validate struct tags of in.
func (s *Service) Validate(in any) error {
	err := s.validator.Struct(in)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return &ValidationError{Fields: []FieldError{{Field: "request", Tag: "invalid"}}}
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(errs))}
	for _, fe := range errs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}

	return out
}
