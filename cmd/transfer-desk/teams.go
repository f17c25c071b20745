// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transfer-desk/internal/rank"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams appearing in the dataset",
	Long: `Teams lists every club named on either side of a collected transfer,
sorted by name. With --registry it lists the clubs the extractor recognizes
instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if fromRegistry, _ := cmd.Flags().GetBool("registry"); fromRegistry {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rank.FormatTeams(newRegistry(cfg).Names(), os.Stdout)
			return nil
		}

		records, err := readDataset(cmd)
		if err != nil {
			return err
		}
		rank.FormatTeams(rank.Teams(records), os.Stdout)
		return nil
	},
}

func init() {
	teamsCmd.Flags().String("data", "", "JSON dataset to read (default: store.output_path)")
	teamsCmd.Flags().Bool("registry", false, "list the recognized clubs instead")

	rootCmd.AddCommand(teamsCmd)
}
