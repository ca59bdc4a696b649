package domain

import "errors"

var (
	// Tenant errors
	ErrTenantNotFound = errors.New("tenant not found")
	ErrTenantInactive = errors.New("tenant is not active")

	// Account errors
	ErrAccountNotFound = errors.New("bank account not found")

	// Transaction errors
	ErrMissingEffectiveDate = errors.New("transaction has neither payment date nor due date")
	ErrNegativeNetAmount    = errors.New("transaction net amount cannot be negative")

	// Statement errors
	ErrInvalidPeriod = errors.New("invalid period: from date is after to date")
)
