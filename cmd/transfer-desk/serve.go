// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/transfer-desk/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the transfer dataset over HTTP",
	Long: `Serve exposes the JSON dataset written by collect:

  GET /api/transfers?team=&direction=   transfers, optionally filtered
  GET /api/teams                        team names

Any origin may call the API. The dataset is reloaded whenever collect
rewrites it; a malformed rewrite keeps the previous data.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("data", "", "JSON dataset to serve (default: store.output_path)")
	serveCmd.Flags().Bool("watch", true, "reload the dataset when the file changes")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"server.addr":      "addr",
		"server.data_path": "data",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv, err := server.Open(cfg.Server.DataPath, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		go func() {
			if err := srv.Watch(ctx); err != nil {
				logger.Warn("dataset watch stopped", "error", err)
			}
		}()
	}
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
