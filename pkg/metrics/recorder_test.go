package metrics

import (
	"errors"
	"testing"

	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r, err := NewRecorder(prometheus.NewRegistry())
	require.NoError(t, err)

	t.Run("should count transitions by target mode", func(t *testing.T) {
		r.ModeChanged(scroll.ModeLive, scroll.ModeReviewing)
		r.ModeChanged(scroll.ModeReviewing, scroll.ModeLive)
		r.ModeChanged(scroll.ModeLive, scroll.ModeReviewing)

		assert.Equal(t, 2.0, testutil.ToFloat64(r.transitions.WithLabelValues("reviewing")))
		assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("live")))
	})

	t.Run("should count loads by outcome", func(t *testing.T) {
		for range 3 {
			r.LoadStarted()
		}
		assert.Equal(t, 3.0, testutil.ToFloat64(r.loadsRunning))

		r.LoadFinished(scroll.LoadResult{})
		r.LoadFinished(scroll.LoadResult{Err: errors.New("boom")})
		r.LoadFinished(scroll.LoadResult{Err: errors.New("cancelled"), Stale: true})

		assert.Equal(t, 3.0, testutil.ToFloat64(r.loads.WithLabelValues("started")))
		assert.Equal(t, 1.0, testutil.ToFloat64(r.loads.WithLabelValues("ok")))
		assert.Equal(t, 1.0, testutil.ToFloat64(r.loads.WithLabelValues("error")))
		assert.Equal(t, 1.0, testutil.ToFloat64(r.loads.WithLabelValues("stale")))
		assert.Equal(t, 0.0, testutil.ToFloat64(r.loadsRunning))
	})

	t.Run("should count repositions and settles", func(t *testing.T) {
		r.Repositioned(scroll.RepositionInstant)
		r.Repositioned(scroll.RepositionSmooth)
		r.UserScrollSettled()

		assert.Equal(t, 1.0, testutil.ToFloat64(r.repositions.WithLabelValues("instant")))
		assert.Equal(t, 1.0, testutil.ToFloat64(r.repositions.WithLabelValues("smooth")))
		assert.Equal(t, 1.0, testutil.ToFloat64(r.settles))
	})
}

func TestRecorderRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestRecorderDrivenByList(t *testing.T) {
	r, err := NewRecorder(prometheus.NewRegistry())
	require.NoError(t, err)

	list := scroll.New(nil, nil, scroll.WithObserver(r))
	defer list.Close()

	list.HandleViewport(scroll.ViewportEvent{
		Metrics: scroll.ViewportMetrics{ScrollOffset: 0, VisibleHeight: 10, ContentHeight: 100},
		Source:  scroll.SourceUser,
	})
	list.JumpToBottom()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("reviewing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.repositions.WithLabelValues("smooth")))
}
