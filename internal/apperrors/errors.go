package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that a withdrawal would drive a wallet balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrStaleRate indicates that a cached exchange rate is missing or older than the
// allowed TTL; callers should run a rate sync and retry.
var ErrStaleRate = errors.New("exchange rate is stale or missing")

// ErrExternal indicates a failure of an external dependency (rate provider network
// error or non-success response); the operation may succeed when retried later.
var ErrExternal = errors.New("external dependency error")
