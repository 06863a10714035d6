package scroll

// Observer is notified of List decisions. Calls are made with the List's
// lock held and must not call back into the List.
type Observer interface {
	ModeChanged(from, to Mode)
	LoadStarted()
	LoadFinished(result LoadResult)
	Repositioned(kind Reposition)
	UserScrollSettled()
}

// NopObserver ignores every notification
type NopObserver struct{}

func (NopObserver) ModeChanged(from, to Mode)      {}
func (NopObserver) LoadStarted()                   {}
func (NopObserver) LoadFinished(result LoadResult) {}
func (NopObserver) Repositioned(kind Reposition)   {}
func (NopObserver) UserScrollSettled()             {}
