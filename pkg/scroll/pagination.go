package scroll

// LoadResult is the completion of one LoadOlder call
type LoadResult struct {
	Err error
	// Stale is set when the list switched conversation or closed while the
	// load was outstanding. Stale results change no state.
	Stale bool
}

// shouldLoad is the pagination gate: near the top, more history exists,
// the source is idle and this list has nothing in flight
func shouldLoad(c Classification, p PaginationState, inFlight bool) bool {
	return c.NearTop && p.HasMore && !p.Loading && !inFlight
}

// startLoadLocked launches LoadOlder for the current generation. The
// returned channel yields exactly one result and is then closed.
func (l *List) startLoadLocked() <-chan LoadResult {
	l.inFlight = true
	gen := l.generation
	ctx := l.genCtx
	source := l.source
	done := make(chan LoadResult, 1)

	l.observer.LoadStarted()
	l.log.Debug("loading older history (conversation=%q)", l.conversation)

	go func() {
		err := source.LoadOlder(ctx)
		done <- l.finishLoad(gen, err)
		close(done)
	}()
	return done
}

func (l *List) finishLoad(gen uint64, err error) LoadResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.generation {
		result := LoadResult{Err: err, Stale: true}
		l.log.Debug("discarding stale history load (generation %d, now %d)", gen, l.generation)
		l.observer.LoadFinished(result)
		return result
	}

	l.inFlight = false
	result := LoadResult{Err: err}
	if err != nil {
		l.log.Warn("history load failed: %v", err)
	}
	l.observer.LoadFinished(result)
	return result
}
