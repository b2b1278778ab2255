package domain

import "errors"

var (
	ErrValidation   = errors.New("validation")    // 400
	ErrForbidden    = errors.New("forbidden")     // 403
	ErrNotFound     = errors.New("not found")     // 404
	ErrConflict     = errors.New("conflict")      // 409
	ErrSelfPurchase = errors.New("self purchase") // 403
	ErrOutOfStock   = errors.New("out of stock")  // 400
)
