// Package guard provides ConstructorGuard, a marker embedded in value objects,
// queries and commands to tell a constructor-built value from a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero-value guard
// when the caller passes no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard. A struct that embeds one
// and is declared as a literal keeps the zero value and fails Validate.
//
// Example:
//
//	type GetCustomerOrdersQuery struct {
//	    customerID string
//	    guard      guard.ConstructorGuard
//	}
//
//	func (q GetCustomerOrdersQuery) Validate() error {
//	    return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
