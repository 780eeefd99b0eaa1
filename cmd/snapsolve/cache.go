package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruixin/snapsolve/internal/imagecache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the image upload cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop expired image upload entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := imagecache.New(store, nil).ClearExpired(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Image cache cleaned.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
}
