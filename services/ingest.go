package services

import (
	"log"
	"time"

	"crop-monitor/cache"
	"crop-monitor/entities"
	"crop-monitor/repositories"
)

// IngestProcessor buffers readings streamed by stations and periodically
// flushes them into the repository.
type IngestProcessor struct {
	buffer   *cache.ReadingBuffer
	repo     repositories.ReadingRepository
	interval time.Duration
	done     chan struct{}
}

func NewIngestProcessor(repo repositories.ReadingRepository, interval time.Duration) *IngestProcessor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &IngestProcessor{
		buffer:   cache.NewReadingBuffer(),
		repo:     repo,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the periodic flush loop.
func (p *IngestProcessor) Start() {
	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Flush()
			case <-p.done:
				return
			}
		}
	}()
}

// Stop halts the flush loop and persists anything still buffered. Stop may
// be called at most once.
func (p *IngestProcessor) Stop() {
	close(p.done)
	p.Flush()
}

// Flush persists every buffered reading. Individual failures are logged and
// skipped so one bad payload cannot stall the stream.
func (p *IngestProcessor) Flush() {
	points := p.buffer.Drain()
	if len(points) == 0 {
		log.Printf("No buffered readings to flush")
		return
	}

	inserted := 0
	for _, point := range points {
		if _, err := p.repo.Create(&point.Input); err != nil {
			log.Printf("Error inserting buffered reading from station %s: %v", point.StationID, err)
			continue
		}
		inserted++
	}
	log.Printf("Flushed %d of %d buffered readings", inserted, len(points))
}

// Add buffers a reading received from a station.
func (p *IngestProcessor) Add(stationID string, input entities.ReadingInput) {
	p.buffer.Add(stationID, input)
}

// Snapshot exposes the buffered readings for the ingest endpoints.
func (p *IngestProcessor) Snapshot() map[string][]cache.ReadingPoint {
	return p.buffer.Snapshot()
}

// Stats exposes buffer statistics for the ingest endpoints.
func (p *IngestProcessor) Stats() map[string]interface{} {
	return p.buffer.Stats()
}
