package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrInvalidQuantity  = errors.New("quantity must not be negative")
	ErrDuplicateRequest = errors.New("idempotent key already exists")
)

// ProductNotFoundError rejects an order referencing an unknown product id.
type ProductNotFoundError struct {
	ProductID int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// DietEvaluationError reports that the order was created but the follow-up
// diet threshold evaluation failed. Callers must not treat it as an order
// creation failure.
type DietEvaluationError struct {
	UserID int
	Err    error
}

func (e *DietEvaluationError) Error() string {
	return fmt.Sprintf("order created but diet evaluation failed for user %d: %v", e.UserID, e.Err)
}

func (e *DietEvaluationError) Unwrap() error { return e.Err }
