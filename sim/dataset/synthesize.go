package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/replensim/replensim/sim"
)

// Synthetic replenishment-history parameters, matching the catalog's
// historical ordering profile.
const (
	synthOrdersPerSKU  = 20
	synthLeadTimeMean  = 14.0
	synthLeadTimeStd   = 3.0
	synthMinLeadTime   = 5
	synthOrderQuantity = 100
	synthHistoryDays   = 365
)

// SynthesizePurchaseOrders fabricates a purchase-order history when none was
// supplied: 20 orders per SKU, lead times drawn from N(14, 3) truncated to
// whole days and clamped to at least 5, order dates scattered over the year
// before now, receipt date following after the lead time.
func SynthesizePurchaseOrders(skus []sim.SKU, now time.Time, rng *rand.Rand) []sim.PurchaseOrder {
	orders := make([]sim.PurchaseOrder, 0, len(skus)*synthOrdersPerSKU)
	for _, s := range skus {
		for i := 0; i < synthOrdersPerSKU; i++ {
			placed := now.AddDate(0, 0, -rng.Intn(synthHistoryDays))
			leadTime := int(rng.NormFloat64()*synthLeadTimeStd + synthLeadTimeMean)
			if leadTime < synthMinLeadTime {
				leadTime = synthMinLeadTime
			}
			orders = append(orders, sim.PurchaseOrder{
				ID:           fmt.Sprintf("PO_%s_%04d", s.ID, i),
				SKUID:        s.ID,
				OrderDate:    placed,
				ReceiptDate:  placed.AddDate(0, 0, leadTime),
				LeadTimeDays: leadTime,
				Quantity:     synthOrderQuantity,
			})
		}
	}
	return orders
}
