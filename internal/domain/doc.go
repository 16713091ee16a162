// Package domain defines the core business entities of the library system:
// users, catalog books, and loan entries. Entities validate themselves and
// expose sentinel errors for the failure modes callers are expected to
// distinguish.
package domain
