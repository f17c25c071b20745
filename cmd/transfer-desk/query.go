// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transfer-desk/internal/rank"
	"github.com/pdiddy/transfer-desk/internal/store"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List collected transfers, optionally filtered",
	Long: `Query reads the JSON dataset written by collect and lists the transfers
involving a team and/or moving in one direction. Both filters are optional
and combine with AND. Output is a table, JSON or YAML.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("data", "", "JSON dataset to read (default: store.output_path)")
	queryCmd.Flags().String("team", "", "only transfers from or to this team")
	queryCmd.Flags().String("direction", "", "only transfers in this direction: in or out")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	queryCmd.Flags().Bool("yaml", false, "output results as YAML")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	records, err := readDataset(cmd)
	if err != nil {
		return err
	}

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	results := rank.Filter(records, q)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	switch {
	case jsonOutput:
		return store.EncodeJSON(os.Stdout, results)
	case yamlOutput:
		return store.EncodeYAML(os.Stdout, results)
	}
	rank.FormatTable(results, os.Stdout)
	return nil
}

// readDataset loads the dataset named by --data, falling back to the
// configured output path.
func readDataset(cmd *cobra.Command) ([]types.Transfer, error) {
	path, _ := cmd.Flags().GetString("data")
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Store.OutputPath
	}
	return store.ReadJSON(path)
}

func queryFromFlags(cmd *cobra.Command) (rank.Query, error) {
	team, _ := cmd.Flags().GetString("team")
	q := rank.Query{Team: team}

	dir, _ := cmd.Flags().GetString("direction")
	if dir != "" {
		d, ok := types.ParseDirection(dir)
		if !ok {
			return q, fmt.Errorf("invalid direction %q: use in or out", dir)
		}
		q.Direction = d
	}
	return q, nil
}
