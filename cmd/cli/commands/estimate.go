package commands

import (
	"fmt"

	"github.com/blues/mintpad/internal/compress"
	"github.com/spf13/cobra"
)

func getEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the compressed size of an image before inscription",
		// 纯计算，不需要加载配置
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			formatName, _ := cmd.Flags().GetString("format")
			quality, _ := cmd.Flags().GetInt("quality")
			limitKB, _ := cmd.Flags().GetInt("limit")

			format, err := compress.ParseFormat(formatName)
			if err != nil {
				return err
			}
			estimate, err := compress.EstimateSize(width, height, format, quality)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%dx%d %s q%d: %d-%d KB (limit %d KB, warning: %s)\n",
				width, height, format, quality, estimate.LowKB, estimate.HighKB, limitKB, estimate.Warning(limitKB))
			return nil
		},
	}

	cmd.Flags().IntP("width", "W", 0, "Target width in pixels")
	cmd.Flags().IntP("height", "H", 0, "Target height in pixels")
	cmd.Flags().StringP("format", "f", "webp", "Output format: webp, jpg or png")
	cmd.Flags().IntP("quality", "q", 80, "Quality percent for lossy formats")
	cmd.Flags().Int("limit", compress.DefaultInscriptionLimitKB, "Inscription size limit in KB")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}
