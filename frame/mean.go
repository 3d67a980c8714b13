package frame

// WindowedMean is the mean of the last n values added.
type WindowedMean struct {
	values []float32
	added  int
	last   int
	mean   float32
	dirty  bool
}

func NewWindowedMean(n int) *WindowedMean {
	if n < 1 {
		n = 1
	}
	return &WindowedMean{values: make([]float32, n), last: -1, dirty: true}
}

// HasEnoughData reports whether the window is full.
func (w *WindowedMean) HasEnoughData() bool {
	return w.added >= len(w.values)
}

func (w *WindowedMean) Clear() {
	w.added = 0
	w.last = -1
	for i := range w.values {
		w.values[i] = 0
	}
	w.dirty = true
}

func (w *WindowedMean) Add(v float32) {
	if w.added < len(w.values) {
		w.added++
	}
	w.last++
	if w.last >= len(w.values) {
		w.last = 0
	}
	w.values[w.last] = v
	w.dirty = true
}

// Mean returns 0 until the window has filled up once.
func (w *WindowedMean) Mean() float32 {
	if !w.HasEnoughData() {
		return 0
	}
	if w.dirty {
		var sum float32
		for _, v := range w.values {
			sum += v
		}
		w.mean = sum / float32(len(w.values))
		w.dirty = false
	}
	return w.mean
}

// Latest returns the most recently added value.
func (w *WindowedMean) Latest() float32 {
	if w.last < 0 {
		return 0
	}
	return w.values[w.last]
}
