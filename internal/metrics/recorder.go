package metrics

// Recorder observes a set of metrics every frame and keeps their values as
// time series.
type Recorder struct {
	metrics []Metric
	times   []float64
	series  map[string][]float64
}

func NewRecorder(ms ...Metric) *Recorder {
	r := &Recorder{
		metrics: ms,
		series:  make(map[string][]float64, len(ms)),
	}
	return r
}

func (r *Recorder) Record(f Frame) {
	r.times = append(r.times, f.Time)
	for _, m := range r.metrics {
		m.Observe(f)
		r.series[m.Name()] = append(r.series[m.Name()], m.Value())
	}
}

// Names lists the metrics in registration order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name()
	}
	return names
}

func (r *Recorder) Times() []float64 { return r.times }

func (r *Recorder) Series(name string) []float64 { return r.series[name] }

// Final maps each metric to its latest value.
func (r *Recorder) Final() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	r.times = r.times[:0]
	for _, m := range r.metrics {
		m.Reset()
		delete(r.series, m.Name())
	}
}
