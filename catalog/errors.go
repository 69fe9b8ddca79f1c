package catalog

import "github.com/goliatone/go-errors"

var (
	// ErrCompanyNotFound is returned when a company lookup matches no row
	ErrCompanyNotFound = errors.New("company not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound).
				WithTextCode("COMPANY_NOT_FOUND")

	// ErrScopeForbidden is returned when a caller asks for records outside
	// the company scope its identity carries
	ErrScopeForbidden = errors.New("records outside your company scope", errors.CategoryAuthz).
				WithCode(errors.CodeForbidden).
				WithTextCode("SCOPE_FORBIDDEN")

	// ErrInvalidPhone is returned when a candidate phone number cannot be
	// parsed as a valid number
	ErrInvalidPhone = errors.New("invalid phone number", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest).
			WithTextCode("INVALID_PHONE")
)
