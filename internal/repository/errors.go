// Package repository implements the MongoDB-backed stores for users and
// products. Sentinel errors defined here let handlers map failures onto
// HTTP outcomes without inspecting driver errors. Uniqueness violations
// (email, SKU, one review per user) are detected from the store's own
// constraint responses, never from a pre-read alone.
package repository

import "errors"

// ErrNotFound is returned when a referenced user or product does not
// exist. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or email change collides with
// the unique index on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrSKUExists is returned when a product insert collides with the unique
// index on products.sku. The SKU generator treats it as a collision signal
// and retries with a fresh draw.
var ErrSKUExists = errors.New("sku already exists")

// ErrDuplicateReview is returned when a user already has a review on the
// product. Reviews are append-only and at most one per (product, user).
var ErrDuplicateReview = errors.New("user already reviewed this product")

// ErrInvalidRating is returned when review stars fall outside [1,5].
var ErrInvalidRating = errors.New("stars must be an integer between 1 and 5")
