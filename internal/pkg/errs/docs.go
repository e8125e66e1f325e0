// Package errs provides standardized error types for the tracking service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used by the domain model, the adapters and the HTTP layer.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its accepted bounds
//   - ObjectNotFoundError: For when an object cannot be found
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works on every wrapper
//
// The HTTP adapter maps ErrObjectNotFound to 404 and the value errors to 400.
package errs
