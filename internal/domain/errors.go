package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product id does not exist in the store
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreFailure is returned when the backing data store cannot serve a request
	ErrStoreFailure = errors.New("data store request failed")

	// ErrUnsupportedFormat is returned for uploads that are neither .xlsx nor .csv
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrEmailTaken is returned on registration with an existing email
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a user id or email is unknown
	ErrUserNotFound = errors.New("user not found")

	// ErrUnauthorized is returned when a session token is missing or invalid
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when a non-admin calls an admin operation
	ErrForbidden = errors.New("forbidden")
)
