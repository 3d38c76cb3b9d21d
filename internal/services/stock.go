// internal/services/stock.go
package services

import (
	"github.com/atelierprints/catalog-backend/internal/models"
)

// ApplyStockDelta is the variant stock state machine as a pure decision
// function. It applies a delta to the quantity and derives the resulting
// status:
//
//   - a delta that would drive the quantity negative rejects the whole
//     operation with InsufficientStockError
//   - reaching 0 moves an available variant to out_of_stock
//   - leaving 0 moves an out_of_stock variant back to available
//   - discontinued variants keep their quantity updated but never change
//     status automatically; leaving discontinued takes an explicit action
//
// Persisting the result is the caller's job.
func ApplyStockDelta(qty int, status models.VariantStatus, delta int) (int, models.VariantStatus, error) {
	newQty := qty + delta
	if newQty < 0 {
		return qty, status, &InsufficientStockError{Current: qty, RequestedDelta: delta}
	}

	newStatus := status
	switch {
	case status == models.VariantStatusDiscontinued:
		// sticky
	case newQty == 0 && status == models.VariantStatusAvailable:
		newStatus = models.VariantStatusOutOfStock
	case newQty > 0 && status == models.VariantStatusOutOfStock:
		newStatus = models.VariantStatusAvailable
	}

	return newQty, newStatus, nil
}

// initialVariantStatus derives the status of a freshly created variant from
// its opening stock.
func initialVariantStatus(qty int) models.VariantStatus {
	if qty == 0 {
		return models.VariantStatusOutOfStock
	}
	return models.VariantStatusAvailable
}
