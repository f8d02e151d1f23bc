package analytics

import "math"

// rollingSum keeps the last size pushed values in a ring buffer.
// Values that are undefined (ok=false) occupy a slot but do not count.
//
// Aggregates are recomputed from the buffer on every read so that no
// rounding residue survives a value leaving the window.
type rollingSum struct {
	buf     []float64
	defined []bool
	next    int
	filled  int
}

func newRollingSum(size int) *rollingSum {
	return &rollingSum{buf: make([]float64, size), defined: make([]bool, size)}
}

func (r *rollingSum) push(v float64, ok bool) {
	if r.filled < len(r.buf) {
		r.filled++
	}
	r.buf[r.next] = v
	r.defined[r.next] = ok
	r.next = (r.next + 1) % len(r.buf)
}

func (r *rollingSum) full() bool { return r.filled == len(r.buf) }

// total and count of the defined values in the window.
func (r *rollingSum) total() (float64, int) {
	var sum float64
	var n int
	for i := 0; i < r.filled; i++ {
		if r.defined[i] {
			sum += r.buf[i]
			n++
		}
	}
	return sum, n
}

// mean of the defined values; ok=false when none are defined.
func (r *rollingSum) mean() (float64, bool) {
	sum, n := r.total()
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// sampleStdDev of the defined values (n-1 denominator), two-pass.
func (r *rollingSum) sampleStdDev() (float64, bool) {
	sum, n := r.total()
	if n < 2 {
		return 0, false
	}
	m := sum / float64(n)
	var ss float64
	for i := 0; i < r.filled; i++ {
		if r.defined[i] {
			d := r.buf[i] - m
			ss += d * d
		}
	}
	return math.Sqrt(ss / float64(n-1)), true
}

// extremeWindow tracks the max (or min) of the last size values with a
// monotonic deque of indices.
type extremeWindow struct {
	size   int
	better func(a, b float64) bool
	idx    []int
	vals   []float64
}

func newMaxWindow(size int) *extremeWindow {
	return &extremeWindow{size: size, better: func(a, b float64) bool { return a >= b }}
}

func newMinWindow(size int) *extremeWindow {
	return &extremeWindow{size: size, better: func(a, b float64) bool { return a <= b }}
}

func (w *extremeWindow) push(i int, v float64) {
	for len(w.vals) > 0 && w.better(v, w.vals[len(w.vals)-1]) {
		w.idx = w.idx[:len(w.idx)-1]
		w.vals = w.vals[:len(w.vals)-1]
	}
	w.idx = append(w.idx, i)
	w.vals = append(w.vals, v)
	for w.idx[0] <= i-w.size {
		w.idx = w.idx[1:]
		w.vals = w.vals[1:]
	}
}

func (w *extremeWindow) value() float64 { return w.vals[0] }
