package metrics

// Recorder receives status bus observability events. Implementations may
// forward to Prometheus; NoopRecorder is used when metrics are not configured.
type Recorder interface {
	IncLinesFannedOut()
	IncSyntheticStops()
	IncReconnects()
	IncSpawnFailures()
	SetActiveConsumers(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncLinesFannedOut()     {}
func (NoopRecorder) IncSyntheticStops()     {}
func (NoopRecorder) IncReconnects()         {}
func (NoopRecorder) IncSpawnFailures()      {}
func (NoopRecorder) SetActiveConsumers(int) {}
