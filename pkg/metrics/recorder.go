// Package metrics counts scroll engine decisions with prometheus
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/killallgit/scrollback/pkg/logger"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scrollback"

// Recorder is a scroll.Observer backed by prometheus counters
type Recorder struct {
	transitions  *prometheus.CounterVec
	loads        *prometheus.CounterVec
	repositions  *prometheus.CounterVec
	settles      prometheus.Counter
	loadsRunning prometheus.Gauge
}

var _ scroll.Observer = (*Recorder)(nil)

// NewRecorder registers the scroll collectors with reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_transitions_total",
			Help:      "Live/reviewing transitions by target mode.",
		}, []string{"to"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_loads_total",
			Help:      "History loads by outcome (started, ok, error, stale).",
		}, []string{"outcome"}),
		repositions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repositions_total",
			Help:      "Scroll-to-bottom commands by kind.",
		}, []string{"kind"}),
		settles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_scroll_settled_total",
			Help:      "Viewer gestures that reached the end of the cooldown.",
		}),
		loadsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_loads_in_flight",
			Help:      "History loads currently outstanding.",
		}),
	}

	for _, c := range []prometheus.Collector{r.transitions, r.loads, r.repositions, r.settles, r.loadsRunning} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ModeChanged(from, to scroll.Mode) {
	r.transitions.WithLabelValues(to.String()).Inc()
}

func (r *Recorder) LoadStarted() {
	r.loads.WithLabelValues("started").Inc()
	r.loadsRunning.Inc()
}

func (r *Recorder) LoadFinished(result scroll.LoadResult) {
	r.loadsRunning.Dec()
	switch {
	case result.Stale:
		r.loads.WithLabelValues("stale").Inc()
	case result.Err != nil:
		r.loads.WithLabelValues("error").Inc()
	default:
		r.loads.WithLabelValues("ok").Inc()
	}
}

func (r *Recorder) Repositioned(kind scroll.Reposition) {
	r.repositions.WithLabelValues(kind.String()).Inc()
}

func (r *Recorder) UserScrollSettled() {
	r.settles.Inc()
}

// Serve exposes gatherer on addr at /metrics until ctx is cancelled
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
