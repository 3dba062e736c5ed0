package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bridge-lite/internal/api"
	"bridge-lite/session"
)

type boardFlags struct {
	dealer string
	seat   string
	vul    string
}

func (b *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.dealer, "dealer", "N", "Dealer seat (N, E, S, W)")
	cmd.Flags().StringVar(&b.seat, "seat", "", "Seat to act (default: the seat on turn)")
	cmd.Flags().StringVar(&b.vul, "vul", "NONE", "Vulnerability (NONE, NS, EW, BOTH)")
}

func (b *boardFlags) spec(systemName string, hand []string, calls []string) session.Spec {
	spec := session.Spec{
		System:        systemName,
		Dealer:        b.dealer,
		Seat:          b.seat,
		Vulnerability: b.vul,
		Hand:          hand,
	}
	for _, c := range calls {
		spec.Auction = append(spec.Auction, session.CallSpec{Call: c})
	}
	return spec
}

// normalize fills in the seat on turn when --seat was not given.
func (b *boardFlags) normalize(systemName string, hand, calls []string) (*session.Session, error) {
	spec := b.spec(systemName, hand, calls)
	if strings.TrimSpace(spec.Seat) == "" {
		probe := spec
		probe.Seat, probe.Hand = "N", nil
		s, err := session.Normalize(probe, systemName)
		if err != nil {
			return nil, err
		}
		spec.Seat = s.Auction.NextSeat().String()
	}
	return session.Normalize(spec, systemName)
}

func newRecommendCmd(a *app) *cobra.Command {
	var (
		board    boardFlags
		hand     string
		external bool
	)
	cmd := &cobra.Command{
		Use:   "recommend [calls...]",
		Short: "Recommend a call for a hand and auction",
		Example: `  bridgectl recommend --hand "AS KS 4S AH QH 6H 5H KD JD 3D 9C 8C 2C"
  bridgectl recommend --dealer N --seat S --hand "..." 1NT P`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := board.normalize(a.cfg.DefaultSystem, strings.Fields(strings.ReplaceAll(hand, ",", " ")), args)
			if err != nil {
				return err
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}
			ext, _, err := a.external(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := api.NewRecommender(reg, ext, nil, a.cfg.ExternalTimeout, a.logger).Recommend(cmd.Context(), s, external)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
	board.register(cmd)
	cmd.Flags().StringVar(&hand, "hand", "", "Thirteen card codes, e.g. \"AS KS 4S ...\"")
	cmd.Flags().BoolVar(&external, "external", false, "Ask the external advisor even when the tables answer")
	_ = cmd.MarkFlagRequired("hand")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
