package cmd

import (
	"context"
	"time"

	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/config"
	"github.com/killallgit/scrollback/pkg/history"
	"github.com/killallgit/scrollback/pkg/logger"
	"github.com/killallgit/scrollback/pkg/metrics"
	"github.com/killallgit/scrollback/pkg/store"
	"github.com/killallgit/scrollback/pkg/tui"
	tuichat "github.com/killallgit/scrollback/pkg/tui/chat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open a conversation in the viewer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd.Context(), config.Get())
	},
}

func init() {
	viewCmd.Flags().String("conversation", "", "conversation to open (default feed.conversation)")
	viper.BindPFlag("feed.conversation", viewCmd.Flags().Lookup("conversation"))

	viewCmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address")
	viper.BindPFlag("metrics.addr", viewCmd.Flags().Lookup("metrics-addr"))

	viewCmd.Flags().Bool("no-feed", false, "do not generate incoming messages")
}

func runView(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st, err := store.Open(cfg.Store.Path, store.Options{})
	if err != nil {
		return fail("open store: %w", err)
	}
	defer st.Close()

	pager := history.New(st,
		history.WithPageSize(cfg.History.PageSize),
		history.WithLatency(cfg.History.Latency),
	)
	if _, err := pager.Open(cfg.Feed.Conversation); err != nil {
		return fail("open conversation %q: %w", cfg.Feed.Conversation, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return fail("metrics: %w", err)
	}
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
	}

	mcfg := tuichat.Config{
		Pager:      pager,
		Thresholds: thresholds(cfg),
		Observer:   recorder,
	}
	if noFeed, _ := viewCmd.Flags().GetBool("no-feed"); !noFeed && cfg.Feed.Interval > 0 {
		gen := chat.NewGenerator(time.Now().UnixNano(), time.Now())
		mcfg.Feed = func() chat.Message { return gen.Next().WithTimestamp(time.Now()) }
		mcfg.FeedInterval = cfg.Feed.Interval
	}

	model := tuichat.NewModel(mcfg)
	defer model.Close()

	logger.Info("viewing %q", cfg.Feed.Conversation)
	if err := tui.StartApp(ctx, model, st, cfg.Feed.Conversation); err != nil {
		return fail("%w", err)
	}
	return nil
}
