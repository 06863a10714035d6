package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/config"
	"github.com/killallgit/scrollback/pkg/logger"
	"github.com/killallgit/scrollback/pkg/store"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Append synthetic messages to a conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		conversation, _ := cmd.Flags().GetString("conversation")
		count, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")

		total, err := runSeed(config.Get(), conversation, count, seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %s messages into %q (%s total)\n",
			humanize.Comma(int64(count)), conversation, humanize.Comma(int64(total)))
		return nil
	},
}

func init() {
	seedCmd.Flags().String("conversation", "general", "conversation to append to")
	seedCmd.Flags().IntP("count", "n", 200, "number of messages")
	seedCmd.Flags().Int64("seed", 0, "generator seed (default: current time)")
}

// runSeed appends count generated messages ending now and returns the
// conversation size
func runSeed(cfg *config.Config, conversation string, count int, seed int64) (int, error) {
	if count <= 0 {
		return 0, fail("count must be positive, got %d", count)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	st, err := store.Open(cfg.Store.Path, store.Options{})
	if err != nil {
		return 0, fail("open store: %w", err)
	}
	defer st.Close()

	// the generator walks forward ~50s per message; start far enough back
	// that the newest message lands near now
	start := time.Now().Add(-time.Duration(count) * 50 * time.Second)
	gen := chat.NewGenerator(seed, start)
	if _, err := st.AppendMany(conversation, gen.Take(count)); err != nil {
		return 0, fail("append: %w", err)
	}

	total, err := st.Count(conversation)
	if err != nil {
		return 0, fail("count: %w", err)
	}
	logger.Info("seeded %d messages into %q", count, conversation)
	return total, nil
}
