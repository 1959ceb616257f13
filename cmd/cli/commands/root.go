package commands

import (
	"github.com/blues/mintpad/internal/config"
	"github.com/blues/mintpad/internal/database"
	"github.com/blues/mintpad/internal/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// cfg 在 PersistentPreRunE 中加载
	cfg *config.Config

	// openDB 测试中替换为 sqlite
	openDB = func() (*gorm.DB, error) {
		return database.Init(cfg.Database)
	}
)

func init() {
	RootCmd.AddCommand(getEstimateCmd())
	RootCmd.AddCommand(getMigrateCmd())
	RootCmd.AddCommand(getResolveCmd())
	RootCmd.AddCommand(getSweepCmd())
}

// RootCmd 命令行入口
var RootCmd = &cobra.Command{
	Use:   "mintctl",
	Short: "mintctl - operator tools for the mintpad launchpad service",
	Long: `mintctl runs maintenance and diagnostic tasks against the mintpad database:
migrations, phase resolution checks, one-off status sweeps and file size estimates.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cfg == nil {
			cfg = config.Load()
		}
		return logger.Init(cfg.Log)
	},
}
