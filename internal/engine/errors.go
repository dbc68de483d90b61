package engine

import "errors"

var (
	// ErrInvalidTransaction is returned for a non-positive amount, an unknown
	// kind or an expense without a category. The state is left untouched.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrEmptyCategory is returned when a category name is blank.
	ErrEmptyCategory = errors.New("category name is empty")

	// ErrCategoryExists is returned when adding a category that is already tracked.
	ErrCategoryExists = errors.New("category already exists")

	// ErrInvalidBonus is returned for a bonus with negative components.
	ErrInvalidBonus = errors.New("bonus must not be negative")
)
