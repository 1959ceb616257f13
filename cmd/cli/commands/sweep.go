package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/blues/mintpad/internal/logic"
	"github.com/blues/mintpad/internal/scheduler"
	"github.com/spf13/cobra"
)

func getSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the phase status sweep once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			job := scheduler.NewPhaseStatusJob(logic.NewSweepLogic(db, logic.NewLaunchLogic(db)), cfg.Task)
			stats, err := job.Run(context.Background(), time.Now().UTC())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "collections=%d phases_completed=%d activated=%d completed=%d failed=%d\n",
				stats.Collections, stats.CompletedPhases, stats.Activated, stats.Completed, stats.Failed)
			return nil
		},
	}
}
