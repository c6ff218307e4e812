package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if app.store == nil {
			fmt.Println("cache is not available")
			return nil
		}
		if err := app.store.Clear(); err != nil {
			return err
		}
		fmt.Println("cache cleared")
		return nil
	},
}

var cacheExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Remove only stale cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if app.store == nil {
			fmt.Println("cache is not available")
			return nil
		}
		removed := app.store.ClearExpired()
		fmt.Printf("removed %d stale entries\n", removed)
		return nil
	},
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show where cached responses live",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if app.store == nil {
			fmt.Println("cache is not available")
			return nil
		}
		fmt.Printf("cache directory: %s\n", app.store.Dir())
		fmt.Printf("default TTL: %s\n", app.cfg.CacheTTL)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd, cacheExpireCmd, cacheInfoCmd)
	rootCmd.AddCommand(cacheCmd)
}
