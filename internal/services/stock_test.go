// internal/services/stock_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierprints/catalog-backend/internal/models"
)

func TestApplyStockDelta(t *testing.T) {
	tests := []struct {
		name       string
		qty        int
		status     models.VariantStatus
		delta      int
		wantQty    int
		wantStatus models.VariantStatus
	}{
		{"restock keeps available", 5, models.VariantStatusAvailable, 3, 8, models.VariantStatusAvailable},
		{"sell down keeps available", 5, models.VariantStatusAvailable, -4, 1, models.VariantStatusAvailable},
		{"selling out flips to out_of_stock", 1, models.VariantStatusAvailable, -1, 0, models.VariantStatusOutOfStock},
		{"restock flips back to available", 0, models.VariantStatusOutOfStock, 10, 10, models.VariantStatusAvailable},
		{"zero delta at zero stays out_of_stock", 0, models.VariantStatusOutOfStock, 0, 0, models.VariantStatusOutOfStock},
		{"discontinued quantity moves, status stays", 5, models.VariantStatusDiscontinued, -5, 0, models.VariantStatusDiscontinued},
		{"discontinued restock stays discontinued", 0, models.VariantStatusDiscontinued, 7, 7, models.VariantStatusDiscontinued},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotQty, gotStatus, err := ApplyStockDelta(tt.qty, tt.status, tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, gotQty)
			assert.Equal(t, tt.wantStatus, gotStatus)
		})
	}
}

func TestApplyStockDeltaRejectsNegativeResult(t *testing.T) {
	qty, status, err := ApplyStockDelta(3, models.VariantStatusAvailable, -4)

	require.Error(t, err)
	assert.True(t, IsInsufficientStock(err))
	// Inputs come back untouched so callers can report current state.
	assert.Equal(t, 3, qty)
	assert.Equal(t, models.VariantStatusAvailable, status)

	var insufficientErr *InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 3, insufficientErr.Current)
	assert.Equal(t, -4, insufficientErr.RequestedDelta)
}

func TestInitialVariantStatus(t *testing.T) {
	assert.Equal(t, models.VariantStatusOutOfStock, initialVariantStatus(0))
	assert.Equal(t, models.VariantStatusAvailable, initialVariantStatus(1))
	assert.Equal(t, models.VariantStatusAvailable, initialVariantStatus(250))
}
