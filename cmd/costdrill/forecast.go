package main

import (
	"os"

	"github.com/elC0mpa/costdrill/export"
	"github.com/elC0mpa/costdrill/model"
	"github.com/elC0mpa/costdrill/utils"
	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Predict spend for the coming period",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		horizon, _ := cmd.Flags().GetInt("horizon")

		forecast, err := withSpinner("Computing forecast...", func() (*model.CostForecast, error) {
			return app.costs.GetCostForecast(ctx, horizon, "")
		})
		if err != nil {
			return err
		}

		format, ok, err := exportFormat(cmd)
		if err != nil {
			return err
		}
		if ok {
			return export.Forecast(os.Stdout, forecast, format)
		}

		utils.DrawForecastTable(app.accountID(ctx), forecast)
		return nil
	},
}

func init() {
	forecastCmd.Flags().Int("horizon", 30, "forecast horizon in days (1 to 365)")
	addExportFlag(forecastCmd)
	rootCmd.AddCommand(forecastCmd)
}
