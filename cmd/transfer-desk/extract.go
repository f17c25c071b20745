// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transfer-desk/internal/record"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text...]",
	Short: "Extract a transfer record from ad-hoc text",
	Long: `Extract runs the extraction and normalization rules on a single piece of
text and prints the resulting record together with the fields that fell back
to a default. Text is read from the arguments, or from stdin when none are
given. Useful for checking how a headline will be interpreted.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("body", "", "article body read after the headline")
	extractCmd.Flags().String("date", "", "date hint, as a source would supply it")
	extractCmd.Flags().String("fee", "", "fee hint, as a source would supply it")
	extractCmd.Flags().String("home-team", "", "club whose official site published the text")

	rootCmd.AddCommand(extractCmd)
}

// extraction is the printed form of one record.Outcome.
type extraction struct {
	Transfer types.Transfer `json:"transfer"`
	Quality  record.Quality `json:"quality"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")
	if title == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		title = strings.TrimSpace(string(data))
	}
	body, _ := cmd.Flags().GetString("body")
	if title == "" && body == "" {
		return fmt.Errorf("provide text as arguments, on stdin, or with --body")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw := types.RawText{Title: title, Body: body, SourceName: "extract"}
	raw.DateHint, _ = cmd.Flags().GetString("date")
	raw.FeeHint, _ = cmd.Flags().GetString("fee")
	raw.HomeTeam, _ = cmd.Flags().GetString("home-team")

	out := newBuilder(cfg).Build(raw)
	out.Transfer.ID = 1

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(extraction{Transfer: out.Transfer, Quality: out.Quality})
}
