package cache

import (
	"sync"
	"time"

	"crop-monitor/entities"
)

// ReadingPoint is one buffered observation waiting to be persisted.
type ReadingPoint struct {
	StationID  string
	Input      entities.ReadingInput
	ReceivedAt time.Time
}

// ReadingBuffer accumulates readings streamed by stations until the ingest
// processor flushes them into the repository.
type ReadingBuffer struct {
	mu        sync.RWMutex
	byStation map[string][]ReadingPoint
}

func NewReadingBuffer() *ReadingBuffer {
	return &ReadingBuffer{byStation: make(map[string][]ReadingPoint)}
}

// Add buffers a reading for the given station.
func (b *ReadingBuffer) Add(stationID string, input entities.ReadingInput) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.byStation[stationID] = append(b.byStation[stationID], ReadingPoint{
		StationID:  stationID,
		Input:      input,
		ReceivedAt: time.Now(),
	})
}

// Drain removes and returns every buffered point.
func (b *ReadingBuffer) Drain() []ReadingPoint {
	b.mu.Lock()
	defer b.mu.Unlock()

	var points []ReadingPoint
	for _, stationPoints := range b.byStation {
		points = append(points, stationPoints...)
	}
	b.byStation = make(map[string][]ReadingPoint)
	return points
}

// Snapshot returns a copy of the current buffer contents keyed by station.
func (b *ReadingBuffer) Snapshot() map[string][]ReadingPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot := make(map[string][]ReadingPoint, len(b.byStation))
	for stationID, points := range b.byStation {
		copied := make([]ReadingPoint, len(points))
		copy(copied, points)
		snapshot[stationID] = copied
	}
	return snapshot
}

// Stats summarizes the buffer for the ingest endpoints.
func (b *ReadingBuffer) Stats() map[string]interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := 0
	for _, points := range b.byStation {
		total += len(points)
	}

	return map[string]interface{}{
		"total_stations": len(b.byStation),
		"total_readings": total,
	}
}
