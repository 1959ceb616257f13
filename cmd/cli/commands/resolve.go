package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/logic"
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/model"
	"github.com/blues/mintpad/internal/wallclock"
	"github.com/blues/mintpad/pkg/validation"
	"github.com/spf13/cobra"
)

func getResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <collection-id>",
		Short: "Show which phase a wallet would mint in at a given time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, _ := cmd.Flags().GetString("wallet")
			at, _ := cmd.Flags().GetString("at")
			tz, _ := cmd.Flags().GetString("tz")

			loc, err := wallclock.LoadZone(tz)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			if strings.TrimSpace(at) != "" {
				if now, err = wallclock.ToUTC(at, loc); err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
			}

			minter := auth.Context{}
			if wallet != "" {
				address, err := validation.ValidateAndNormalizeAddress(wallet)
				if err != nil {
					return err
				}
				minter.Address = address
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			ctx := context.Background()
			var collection model.CollectionModel
			if err := db.WithContext(ctx).First(&collection, "id = ?", args[0]).Error; err != nil {
				return fmt.Errorf("collection %s: %w", args[0], err)
			}
			var phases []model.PhaseModel
			if err := db.WithContext(ctx).Where("collection_id = ?", collection.Id).Find(&phases).Error; err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "collection %s (%s) at %s\n", collection.Name, collection.CollectionStatus, wallclock.FromUTC(now, loc))
			for _, p := range mint.SortPhases(phases) {
				start, end := "-", "open"
				if p.StartTime != nil {
					start = wallclock.FromUTC(*p.StartTime, loc)
				}
				if p.EndTime != nil {
					end = wallclock.FromUTC(*p.EndTime, loc)
				}
				fmt.Fprintf(out, "  %-20s %s -> %s minted=%d completed=%v paused=%v\n",
					p.PhaseName, start, end, p.PhaseMinted, p.IsCompleted, p.IsPaused())
			}

			res, err := mint.Resolve(ctx, &collection, phases, logic.NewWhitelistLogic(db), minter, now)
			if res != nil {
				fmt.Fprintf(out, "phase: %s remaining=%d extended=%v\n", res.Phase.PhaseName, res.Remaining, res.Extended)
			}
			if err != nil {
				if reason := logic.Reason(err); reason != "" {
					fmt.Fprintf(out, "result: rejected (%s)\n", reason)
					return nil
				}
				return err
			}
			fmt.Fprintln(out, "result: eligible")
			return nil
		},
	}

	cmd.Flags().StringP("wallet", "w", "", "Wallet address to check whitelist eligibility for")
	cmd.Flags().String("at", "", "Instant to resolve at (RFC3339 or local 2006-01-02T15:04), default now")
	cmd.Flags().String("tz", "UTC", "IANA time zone for --at and the printed times")
	return cmd
}
