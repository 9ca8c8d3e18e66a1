package rng

import (
	"fmt"
	"math/big"
	"time"
)

// DefaultStreamCount is the stream count used when a configuration does not
// ask for a specific number of lanes.
const DefaultStreamCount = 256

// Stream is one independently seeded Lehmer lane of a MultiStream. The
// generator owns all streams for its lifetime; a Stream handle mutates only
// its own state and implements UniformSource natively, so distribution code
// is agnostic to whether it draws from a Lehmer or from one lane.
type Stream struct {
	index   int
	state   int64
	sampler Sampler
}

// Index returns this stream's position within its MultiStream.
func (s *Stream) Index() int {
	return s.index
}

// Next advances only this stream and returns the new state. A state of 0
// or Modulus cannot arise from exact Schrage arithmetic, but is re-clamped
// to 1 anyway so the invariant state in [1, Modulus-1] survives any
// edge-case seeding.
func (s *Stream) Next() int64 {
	next := step(s.state)
	if next == 0 || next == Modulus {
		next = 1
	}
	s.state = next
	return next
}

// NextDouble returns the next variate of this stream normalized to [0, 1).
func (s *Stream) NextDouble() float64 {
	return float64(s.Next()) / float64(Modulus)
}

// Attach associates sampler with this stream, replacing any previous
// attachment.
func (s *Stream) Attach(sampler Sampler) {
	s.sampler = sampler
}

// Detach removes the stream's attached sampler, if any.
func (s *Stream) Detach() {
	s.sampler = nil
}

// NextDist draws one variate from the sampler attached to this stream.
func (s *Stream) NextDist() (float64, error) {
	if s.sampler == nil {
		return 0, fmt.Errorf("rng: no distribution attached to stream %d", s.index)
	}
	return s.sampler.Sample(s), nil
}

// MultiStream owns streamCount independent Lehmer states. Stream i+1 starts
// Multiplier^d steps ahead of stream i in the master sequence, where
// d = (Modulus-1)/streamCount, so for any run drawing fewer than d values
// per stream no two streams' outputs can collide. This is a designed
// guarantee, not a probabilistic one.
type MultiStream struct {
	seed    int64
	streams []Stream
}

// NewMultiStream builds a generator with streamCount lanes. streamCount
// must be at least 1. A seed <= 0 is replaced by the current clock reading
// (non-reproducible path).
func NewMultiStream(seed int64, streamCount int) (*MultiStream, error) {
	if streamCount < 1 {
		return nil, fmt.Errorf("rng: stream count must be >= 1, got %d", streamCount)
	}
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	ms := &MultiStream{
		seed:    seed,
		streams: make([]Stream, streamCount),
	}
	ms.plantSeeds()
	return ms, nil
}

// plantSeeds places the stream starting states d = (Modulus-1)/streamCount
// apart using jump-ahead: jump = Multiplier^d mod Modulus. The modular
// exponentiation and the per-stream products run on big.Int because the
// product of two values near 2^63 overflows any 64-bit intermediate.
func (ms *MultiStream) plantSeeds() {
	base := ms.seed % Modulus
	if base <= 0 {
		base = 1
	}
	distance := (Modulus - 1) / int64(len(ms.streams))

	bigA := big.NewInt(Multiplier)
	bigM := big.NewInt(Modulus)
	jump := new(big.Int).Exp(bigA, big.NewInt(distance), bigM)

	state := new(big.Int).Mul(big.NewInt(base), bigA)
	state.Mod(state, bigM)
	for i := range ms.streams {
		ms.streams[i] = Stream{index: i, state: state.Int64()}
		state.Mul(state, jump)
		state.Mod(state, bigM)
	}
}

// Seed returns the seed the streams were planted from.
func (ms *MultiStream) Seed() int64 {
	return ms.seed
}

// StreamCount returns the number of lanes.
func (ms *MultiStream) StreamCount() int {
	return len(ms.streams)
}

// Stream returns the handle for lane i. The handle stays valid for the
// generator's lifetime. Panics if i is out of range, like any slice index.
func (ms *MultiStream) Stream(i int) *Stream {
	if i < 0 || i >= len(ms.streams) {
		panic(fmt.Sprintf("rng: stream index %d out of range [0, %d)", i, len(ms.streams)))
	}
	return &ms.streams[i]
}

// Next advances stream i and returns its new state.
func (ms *MultiStream) Next(i int) int64 {
	return ms.Stream(i).Next()
}

// NextDouble returns stream i's next variate normalized to [0, 1).
func (ms *MultiStream) NextDouble(i int) float64 {
	return ms.Stream(i).NextDouble()
}

// AttachSampler associates a sampler with stream i, replacing any previous
// attachment.
func (ms *MultiStream) AttachSampler(i int, s Sampler) error {
	if i < 0 || i >= len(ms.streams) {
		return fmt.Errorf("rng: stream index %d out of range [0, %d)", i, len(ms.streams))
	}
	ms.streams[i].Attach(s)
	return nil
}

// DetachSampler removes the sampler attached to stream i, if any.
func (ms *MultiStream) DetachSampler(i int) error {
	if i < 0 || i >= len(ms.streams) {
		return fmt.Errorf("rng: stream index %d out of range [0, %d)", i, len(ms.streams))
	}
	ms.streams[i].Detach()
	return nil
}

// NextDist draws one variate from the sampler attached to stream i. It
// fails when i is out of range or when no sampler is attached.
func (ms *MultiStream) NextDist(i int) (float64, error) {
	if i < 0 || i >= len(ms.streams) {
		return 0, fmt.Errorf("rng: stream index %d out of range [0, %d)", i, len(ms.streams))
	}
	return ms.streams[i].NextDist()
}
