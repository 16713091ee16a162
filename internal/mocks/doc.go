// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of the store and service
// interfaces used throughout the application, so that individual test
// files can share one set of fakes instead of redefining them inline.
//
// Each mock follows the same pattern: function fields override individual
// methods when set, and an in-memory default implementation backs the
// rest. The in-memory stores are safe for concurrent use; MockLoanStore
// in particular enforces the same active-loan uniqueness the database
// index enforces, atomically, so the loan service's concurrency behavior
// can be exercised without a database.
package mocks
