package channel

import "sync/atomic"

// Statistics tracks channel-level statistics
type Statistics struct {
	numBytesTx    uint64
	numBytesRx    uint64
	numChunksRx   uint64
	numWriteFails uint64
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{}
}

// BytesTx adds transmitted bytes
func (s *Statistics) BytesTx(n uint64) {
	atomic.AddUint64(&s.numBytesTx, n)
}

// BytesRx adds received bytes
func (s *Statistics) BytesRx(n uint64) {
	atomic.AddUint64(&s.numBytesRx, n)
}

// ChunkRx increments received chunks
func (s *Statistics) ChunkRx() {
	atomic.AddUint64(&s.numChunksRx, 1)
}

// WriteFail increments failed writes
func (s *Statistics) WriteFail() {
	atomic.AddUint64(&s.numWriteFails, 1)
}

// GetBytesTx returns transmitted bytes
func (s *Statistics) GetBytesTx() uint64 {
	return atomic.LoadUint64(&s.numBytesTx)
}

// GetBytesRx returns received bytes
func (s *Statistics) GetBytesRx() uint64 {
	return atomic.LoadUint64(&s.numBytesRx)
}

// GetChunksRx returns received chunks
func (s *Statistics) GetChunksRx() uint64 {
	return atomic.LoadUint64(&s.numChunksRx)
}

// GetWriteFails returns failed writes
func (s *Statistics) GetWriteFails() uint64 {
	return atomic.LoadUint64(&s.numWriteFails)
}

// Reset resets all statistics
func (s *Statistics) Reset() {
	atomic.StoreUint64(&s.numBytesTx, 0)
	atomic.StoreUint64(&s.numBytesRx, 0)
	atomic.StoreUint64(&s.numChunksRx, 0)
	atomic.StoreUint64(&s.numWriteFails, 0)
}
