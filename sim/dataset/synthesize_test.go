package dataset

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replensim/replensim/sim"
)

func TestSynthesizePurchaseOrders_ShapeAndBounds(t *testing.T) {
	skus := []sim.SKU{{ID: "SKU-1"}, {ID: "SKU-2"}}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	orders := SynthesizePurchaseOrders(skus, now, rand.New(rand.NewSource(42)))

	require.Len(t, orders, 40)
	earliest := now.AddDate(0, 0, -365)
	for _, po := range orders {
		assert.GreaterOrEqual(t, po.LeadTimeDays, 5, "po %s", po.ID)
		assert.Equal(t, 100.0, po.Quantity, "po %s", po.ID)
		assert.Equal(t, po.OrderDate.AddDate(0, 0, po.LeadTimeDays), po.ReceiptDate, "po %s", po.ID)
		assert.False(t, po.OrderDate.After(now), "po %s ordered in the future", po.ID)
		assert.True(t, po.OrderDate.After(earliest), "po %s ordered too long ago", po.ID)
	}

	assert.Equal(t, "PO_SKU-1_0000", orders[0].ID)
	assert.Equal(t, "PO_SKU-1_0019", orders[19].ID)
	assert.Equal(t, "PO_SKU-2_0000", orders[20].ID)
}

func TestSynthesizePurchaseOrders_Deterministic(t *testing.T) {
	skus := []sim.SKU{{ID: "SKU-1"}, {ID: "SKU-2"}, {ID: "SKU-3"}}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first := SynthesizePurchaseOrders(skus, now, rand.New(rand.NewSource(7)))
	second := SynthesizePurchaseOrders(skus, now, rand.New(rand.NewSource(7)))

	require.Equal(t, first, second)
}

func TestSynthesizePurchaseOrders_LeadTimesVary(t *testing.T) {
	skus := []sim.SKU{{ID: "SKU-1"}, {ID: "SKU-2"}}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	orders := SynthesizePurchaseOrders(skus, now, rand.New(rand.NewSource(42)))

	distinct := map[int]bool{}
	sum := 0.0
	for _, po := range orders {
		distinct[po.LeadTimeDays] = true
		sum += float64(po.LeadTimeDays)
	}
	assert.Greater(t, len(distinct), 1, "lead times should spread around the mean")
	assert.InDelta(t, 14.0, sum/float64(len(orders)), 2.0)
}
