package engine

import "sync"

// Snapshot is a rolling window over the most recent samples of one signal.
// The render goroutine appends blocks; any other goroutine may copy the
// window out. Each call holds the mutex only for the copy.
type Snapshot struct {
	mu  sync.Mutex
	buf []float32
	pos int // next write index
	seq uint64
}

// NewSnapshot returns a snapshot holding capacity samples, initially silent.
func NewSnapshot(capacity int) *Snapshot {
	if capacity < 1 {
		capacity = 1
	}
	return &Snapshot{buf: make([]float32, capacity)}
}

// Cap returns the number of samples retained.
func (s *Snapshot) Cap() int { return len(s.buf) }

// Write appends block. Blocks longer than the capacity keep only their tail.
func (s *Snapshot) Write(block []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := len(s.buf)
	if len(block) > size {
		block = block[len(block)-size:]
	}
	for _, v := range block {
		s.buf[s.pos] = float32(v)
		s.pos++
		if s.pos == size {
			s.pos = 0
		}
	}
	s.seq++
}

// Read copies the newest samples into dst in chronological order and returns
// how many were copied along with the number of completed writes. When dst
// is longer than the capacity, the first Cap() elements receive the window
// and the rest are zeroed.
func (s *Snapshot) Read(dst []float32) (n int, seq uint64) {
	size := len(s.buf)
	n = min(len(dst), size)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.pos - n
	if start < 0 {
		start += size
	}
	first := copy(dst[:n], s.buf[start:min(start+n, size)])
	copy(dst[first:n], s.buf[:n-first])

	return n, s.seq
}

// Seq returns the number of completed writes.
func (s *Snapshot) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset silences the window.
func (s *Snapshot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.buf {
		s.buf[i] = 0
	}
	s.pos = 0
}
