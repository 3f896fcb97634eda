package commands

import (
	"ChartService/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one chart to a PNG image or figure JSON file",
	Example: `  chart-service render --type line --title "Close over time" --x Date --y Close -o close.png
  chart-service render --type pie --title "Revenue by sector" --x Sector --y Revenue --format json -o pie.json`,
	RunE: runRender,
}

var errChartRejected = errors.New("chart request rejected")

func init() {
	flags := renderCmd.Flags()
	flags.String("type", "", "chart type (line, bar, scatter, pie, histogram, box, candlestick, heatmap, area)")
	flags.String("title", "", "chart title")
	flags.String("x", "", "X-axis column")
	flags.String("y", "", "Y-axis column")
	flags.String("group", "", "group-by column")
	flags.StringSlice("extra-y", nil, "additional Y columns for line and area charts")
	flags.String("format", "png", "output format: png or json")
	flags.StringP("output", "o", "", "output file (required)")
	_ = renderCmd.MarkFlagRequired("type")
	_ = renderCmd.MarkFlagRequired("title")
	_ = renderCmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	chartType, _ := flags.GetString("type")
	title, _ := flags.GetString("title")
	x, _ := flags.GetString("x")
	y, _ := flags.GetString("y")
	group, _ := flags.GetString("group")
	extraY, _ := flags.GetStringSlice("extra-y")
	format, _ := flags.GetString("format")
	output, _ := flags.GetString("output")

	format = strings.ToLower(format)
	if format != "png" && format != "json" {
		return fmt.Errorf("invalid format: %s (must be png or json)", format)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	req := model.ChartRequest{
		Title:           title,
		GraphType:       model.ChartType(strings.ToLower(chartType)),
		XAxis:           x,
		YAxis:           y,
		GroupBy:         group,
		AdditionalYAxes: extraY,
	}

	ctx := context.Background()
	var (
		payload []byte
		result  model.ChartResult
	)
	if format == "png" {
		payload, result, err = a.service.RenderPNG(ctx, req)
	} else {
		result, err = a.service.Generate(ctx, req)
		if err == nil && result.Success {
			payload, err = json.MarshalIndent(result.Figure, "", "  ")
		}
	}
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	for _, w := range result.Warnings {
		a.logger.Warn("chart warning", zap.String("warning", w))
	}
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
		}
		return errChartRejected
	}

	if err := os.WriteFile(output, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	a.logger.Info("chart written", zap.String("file", output), zap.Int("bytes", len(payload)))
	return nil
}
