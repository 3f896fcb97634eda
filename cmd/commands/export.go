package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dataset to an xlsx file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "dataset.xlsx", "output xlsx file")
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}

	if err := a.service.ExportXLSX(context.Background(), file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", output, err)
	}

	a.logger.Info("dataset exported", zap.String("file", output))
	return nil
}
