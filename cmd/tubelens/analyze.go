package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tubelens/internal/platform/config"
	"tubelens/internal/services/analytics/domain"
	analyticsrepo "tubelens/internal/services/analytics/repo"
	analyticssvc "tubelens/internal/services/analytics/service"
)

// newAnalyzeCmd creates the analyze subcommand group.
func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the analytics engine and print JSON to stdout",
	}

	cmd.AddCommand(newAnalyzeSummaryCmd())
	cmd.AddCommand(newAnalyzeTopCmd())
	cmd.AddCommand(newAnalyzeWindowsCmd())
	cmd.AddCommand(newAnalyzeGrowthCmd())

	return cmd
}

// withAnalytics opens the store, builds the analytics service, and runs fn
func withAnalytics(fn func(ctx context.Context, svc analyticssvc.Service) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())

		cliCfg := config.New().Prefix("CORE_API_")
		svc := analyticssvc.New(st.PG, analyticsrepo.NewPG(), analyticssvc.Config{
			Location:  cliCfg.MayTZ("TZ", nil),
			MinSample: cliCfg.MayInt("MIN_SAMPLE", 0),
		})

		out, err := fn(ctx, svc)
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	}
}

func newAnalyzeSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Dataset overview across views, likes, comments, and engagement",
		RunE: withAnalytics(func(ctx context.Context, svc analyticssvc.Service) (any, error) {
			return svc.Summary(ctx, domain.SummaryInput{})
		}),
	}
}

func newAnalyzeTopCmd() *cobra.Command {
	var metric string
	var n int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Top videos by metric",
		RunE: withAnalytics(func(ctx context.Context, svc analyticssvc.Service) (any, error) {
			return svc.TopVideos(ctx, domain.TopVideosInput{Metric: metric, N: n})
		}),
	}
	cmd.Flags().StringVarP(&metric, "metric", "m", "views", "Ranking metric")
	cmd.Flags().IntVarP(&n, "n", "n", 10, "Number of videos")
	return cmd
}

func newAnalyzeWindowsCmd() *cobra.Command {
	var metric string
	var topK int

	cmd := &cobra.Command{
		Use:   "windows",
		Short: "Best publish windows by mean metric",
		RunE: withAnalytics(func(ctx context.Context, svc analyticssvc.Service) (any, error) {
			return svc.Windows(ctx, domain.WindowsInput{Metric: metric, TopK: topK})
		}),
	}
	cmd.Flags().StringVarP(&metric, "metric", "m", "engagement_rate", "Ranking metric")
	cmd.Flags().IntVarP(&topK, "top", "k", 5, "Number of windows")
	return cmd
}

func newAnalyzeGrowthCmd() *cobra.Command {
	var channelID string

	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Channel growth across snapshots",
		RunE: withAnalytics(func(ctx context.Context, svc analyticssvc.Service) (any, error) {
			return svc.Growth(ctx, domain.GrowthInput{ChannelID: channelID})
		}),
	}
	cmd.Flags().StringVarP(&channelID, "channel", "c", "", "Restrict to one channel")
	return cmd
}
