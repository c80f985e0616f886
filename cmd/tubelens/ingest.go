package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tubelens/internal/adapters/dump"
	"tubelens/internal/platform/config"
	ingestdomain "tubelens/internal/services/ingest/domain"
	ingestrepo "tubelens/internal/services/ingest/repo"
	ingestsvc "tubelens/internal/services/ingest/service"
)

// newIngestCmd creates the ingest subcommand.
func newIngestCmd() *cobra.Command {
	var kind string
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a raw JSON dump into the store",
		Long:  "Read a JSON array of raw records from a dump file, normalize it, and persist the batch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != "channels" && kind != "videos" && kind != "comments" {
				return fmt.Errorf("invalid kind %q: must be 'channels', 'videos', or 'comments'", kind)
			}

			records, err := dump.ReadAll(file)
			if err != nil {
				return fmt.Errorf("read dump: %w", err)
			}
			if len(records) == 0 {
				return fmt.Errorf("dump %s holds no records", file)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			st, err := openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close(context.Background())

			cliCfg := config.New().Prefix("CORE_API_")
			svc := ingestsvc.New(
				st.PG,
				ingestrepo.NewPG(),
				ingestrepo.NewWarehouse(st.CH),
				ingestsvc.Config{Location: cliCfg.MayTZ("TZ", nil)},
			)

			in := ingestdomain.BatchInput{Records: records}
			var res ingestdomain.BatchResult
			switch kind {
			case "channels":
				res, err = svc.Channels(ctx, in)
			case "videos":
				res, err = svc.Videos(ctx, in)
			case "comments":
				res, err = svc.Comments(ctx, in)
			}
			if err != nil {
				return err
			}

			return printJSON(cmd, res)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Record kind (channels, videos, comments)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the JSON dump file")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// printJSON writes v as indented JSON to the command's stdout
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
