package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/killallgit/scrollback/pkg/config"
	"github.com/killallgit/scrollback/pkg/store"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeed(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Path: filepath.Join(t.TempDir(), "messages")}}

	total, err := runSeed(cfg, "general", 25, 7)
	require.NoError(t, err)
	assert.Equal(t, 25, total)

	total, err = runSeed(cfg, "general", 5, 8)
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	st, err := store.Open(cfg.Store.Path, store.Options{})
	require.NoError(t, err)
	defer st.Close()

	latest, err := st.Latest("general", 3)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, uint64(30), latest[2].Seq)

	_, err = runSeed(cfg, "general", 0, 1)
	assert.Error(t, err)
}

func TestThresholdsFromConfig(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	th := thresholds(cfg)
	assert.Equal(t, 50.0, th.BottomEpsilon)
	assert.Equal(t, 200.0, th.TopThreshold)
	assert.Equal(t, cfg.Scroll.UserScrollCooldown, th.UserScrollCooldown)
}

func TestReplayCommand(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Chdir(dir)

	scenario := filepath.Join(dir, "live.yaml")
	require.NoError(t, os.WriteFile(scenario, []byte(`
name: live
messages: 4
steps:
  - append: {count: 1}
  - expect: {mode: live, commands: [instant, instant]}
`), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"replay", scenario})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "#1 append 1 message")
	assert.Contains(t, out.String(), "=> ok")
}
