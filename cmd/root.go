package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/killallgit/scrollback/pkg/config"
	"github.com/killallgit/scrollback/pkg/logger"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "scrollback",
	Short: "Chat history viewer",
	Long: `Scrollback shows a chat conversation the way a messaging client does:
it follows new messages while you are at the bottom, holds still while you
read older ones and pages in history as you approach the top.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .scrollback/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(viewCmd, seedCmd, replayCmd)
}

func initConfig() error {
	// .env is optional
	_ = godotenv.Load(".env")

	if _, err := config.Load(cfgFile); err != nil {
		return err
	}
	if err := logger.Init(); err != nil {
		return err
	}

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Info("Using config file: %s", used)
	}
	return nil
}

// thresholds maps the scroll section of the config onto the engine tuning
func thresholds(c *config.Config) scroll.Thresholds {
	return scroll.Thresholds{
		BottomEpsilon:      c.Scroll.BottomEpsilon,
		TopThreshold:       c.Scroll.TopThreshold,
		UserScrollCooldown: c.Scroll.UserScrollCooldown,
		ProgrammaticGrace:  c.Scroll.ProgrammaticGrace,
	}
}

func fail(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	logger.Error("%v", err)
	return err
}
