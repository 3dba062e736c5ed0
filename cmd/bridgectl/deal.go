package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bridge-lite/auction"
	"bridge-lite/card"
	"bridge-lite/hand"
	"bridge-lite/robot"
)

func newDealCmd(a *app) *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Deal four random hands (seeded) and show their facts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seed %d\n", seed)
			hands := robot.Deal(seed)
			for _, seat := range auction.Rotation {
				cards := hands[seat]
				f, err := hand.Compute(cards)
				if err != nil {
					return err
				}
				shape := f.Distribution()
				if f.Balanced {
					shape += " balanced"
				}
				fmt.Fprintf(out, "%s  %s  (%d HCP, %s)\n", seat, strings.Join(card.Codes(cards), " "), f.HCP, shape)
			}
			a.logger.Debug("dealt", zap.Int64("seed", seed))
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "Deal seed (0 picks one from the clock)")
	return cmd
}
