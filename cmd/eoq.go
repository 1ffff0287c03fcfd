package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/replensim/replensim/sim/policy"
)

var (
	eoqAnnualDemand    float64 // Forecast annual demand in units
	eoqOrderCost       float64 // Fixed cost per purchase order, in dollars
	eoqUnitCost        float64 // Unit cost, in dollars
	eoqHoldingCostRate float64 // Annual holding cost as a fraction of unit cost
)

// eoqCmd prints the economic order quantity for one SKU's cost inputs. It is
// a planning calculator on the side of the experiment: order sizing, unlike
// reorder timing, is the same in both arms.
var eoqCmd = &cobra.Command{
	Use:   "eoq",
	Short: "Compute the economic order quantity for one SKU",
	Run: func(cmd *cobra.Command, args []string) {
		if eoqAnnualDemand <= 0 {
			logrus.Fatalf("annual-demand must be positive, got %v", eoqAnnualDemand)
		}
		q := policy.EconomicOrderQuantity(eoqAnnualDemand, eoqOrderCost, eoqUnitCost, eoqHoldingCostRate)
		fmt.Printf("EOQ: %.2f units\n", q)
	},
}

// init sets up CLI flags for the eoq subcommand
func init() {
	eoqCmd.Flags().Float64Var(&eoqAnnualDemand, "annual-demand", 0, "Forecast annual demand in units")
	eoqCmd.Flags().Float64Var(&eoqOrderCost, "order-cost", policy.DefaultOrderCost, "Fixed cost per purchase order in dollars")
	eoqCmd.Flags().Float64Var(&eoqUnitCost, "unit-cost", policy.DefaultEOQUnitCost, "Unit cost in dollars")
	eoqCmd.Flags().Float64Var(&eoqHoldingCostRate, "holding-rate", policy.DefaultHoldingCostRate, "Annual holding cost as a fraction of unit cost")
	_ = eoqCmd.MarkFlagRequired("annual-demand")

	rootCmd.AddCommand(eoqCmd)
}
