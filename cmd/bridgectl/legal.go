package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bridge-lite/auction"
	"bridge-lite/bidding"
)

func newLegalCmd(a *app) *cobra.Command {
	var board boardFlags
	cmd := &cobra.Command{
		Use:     "legal [calls...]",
		Short:   "Show whose turn it is, the legal calls and what the auction means",
		Example: `  bridgectl legal --dealer N 1NT 2H`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := board.normalize(a.cfg.DefaultSystem, nil, args)
			if err != nil {
				return err
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}
			sys, err := reg.Get(s.System)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range bidding.New(sys).Interpret(s.Auction) {
				fmt.Fprintf(out, "%2d. %s %-4s %s\n", m.Index+1, m.Seat, m.Call, m.Meaning)
			}
			if s.Auction.Ended() {
				fmt.Fprintln(out, "Auction ended.")
				return nil
			}
			next := s.Auction.NextSeat()
			fmt.Fprintf(out, "%s to call: %s\n", next, auction.JoinCalls(s.Auction.LegalCalls(next)))
			return nil
		},
	}
	board.register(cmd)
	return cmd
}
