package main

import (
	"context"
	"encoding/json"
	"io"
	stdlog "log"
	"os"

	"github.com/elC0mpa/costdrill/cache"
	"github.com/elC0mpa/costdrill/config"
	"github.com/elC0mpa/costdrill/service/aggregator"
	awsconfig "github.com/elC0mpa/costdrill/service/aws/config"
	awscostexplorer "github.com/elC0mpa/costdrill/service/aws/costexplorer"
	awsec2 "github.com/elC0mpa/costdrill/service/aws/ec2"
	awssts "github.com/elC0mpa/costdrill/service/aws/sts"
	"github.com/elC0mpa/costdrill/utils"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "costdrill",
	Short: "Drill into AWS costs down to the instance level",
	Long: "costdrill joins Cost Explorer billing data with the EC2 inventory to show\n" +
		"where the money actually goes: per-instance breakdowns, waste detection,\n" +
		"forecasts and regional summaries.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// the banner would corrupt exported output
		if flag := cmd.Flags().Lookup("output"); flag == nil || flag.Value.String() == "" {
			utils.DrawBanner()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("region", "", "AWS region (defaults to AWS_REGION)")
	flags.String("profile", "", "AWS shared config profile")
	flags.Int("days", 30, "query window in days")
	flags.Bool("no-cache", false, "bypass the response cache")
	flags.IntP("verbosity", "v", 0, "log verbosity")

	viper.BindPFlag("region", flags.Lookup("region"))
	viper.BindPFlag("profile", flags.Lookup("profile"))
	viper.BindPFlag("days", flags.Lookup("days"))
	viper.BindPFlag("verbosity", flags.Lookup("verbosity"))
}

// app bundles the wired services a command needs
type app struct {
	cfg        *config.Config
	log        logr.Logger
	store      *cache.Cache
	identity   awssts.IdentityService
	costs      awscostexplorer.CostService
	aggregator aggregator.AggregatorService
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.CacheEnabled = false
	}

	stdr.SetVerbosity(cfg.Verbosity)
	log := stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags)).WithName("costdrill")

	awsCfg, err := awsconfig.NewService().GetAWSCfg(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return nil, err
	}

	store, err := cache.New(cfg.CacheDir, cfg.CacheTTL, log)
	if err != nil {
		log.Error(err, "cache unavailable, continuing without it")
		store = nil
	}

	costs := awscostexplorer.NewCachedService(
		awscostexplorer.NewService(awsCfg, log), store, cfg.CacheEnabled, log)
	instances := awsec2.NewService(awsCfg, log)

	agg := aggregator.NewCachedService(
		aggregator.NewService(instances, costs, awsCfg.Region, log),
		store, awsCfg.Region, cfg.CacheEnabled, log)

	return &app{
		cfg:        cfg,
		log:        log,
		store:      store,
		identity:   awssts.NewService(awsCfg),
		costs:      costs,
		aggregator: agg,
	}, nil
}

// accountID resolves the caller's account for table headers; failures
// degrade to a placeholder instead of aborting the command
func (a *app) accountID(ctx context.Context) string {
	info, err := a.identity.GetAccountInfo(ctx)
	if err != nil {
		a.log.V(1).Info("could not resolve account identity", "error", err.Error())
		return "unknown"
	}
	return info.AccountID
}

func jsonEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}

func withSpinner[T any](message string, fn func() (T, error)) (T, error) {
	utils.StartSpinner(message)
	defer utils.StopSpinner()
	return fn()
}
