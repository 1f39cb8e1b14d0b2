package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the emission disk cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop all cached emission artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := driver.OpenDiskCache("quill")
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache cleaned")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
}
