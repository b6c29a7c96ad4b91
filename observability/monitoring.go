package observability

import (
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// ProcessSample is the last CPU and memory reading of the hub process.
type ProcessSample struct {
	PID        int32     `json:"pid"`
	Status     string    `json:"status"`
	CPUPercent float64   `json:"cpu_percent"`
	RSSBytes   uint64    `json:"rss_bytes"`
	SampledAt  time.Time `json:"sampled_at"`
}

// QueueSample is the last length/capacity reading of a named channel.
type QueueSample struct {
	Name     string `json:"name"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
}

// HubSnapshot aggregates every metric served on /healthz
type HubSnapshot struct {
	Status              string        `json:"status"`
	Uptime              string        `json:"uptime"`
	Participants        int           `json:"participants"`
	Documents           int           `json:"documents"`
	Connections         uint64        `json:"connections"`
	RejectedConnections uint64        `json:"rejected_connections"`
	Broadcasts          uint64        `json:"broadcasts"`
	DeliveryFailures    uint64        `json:"delivery_failures"`
	Coalesced           uint64        `json:"coalesced"`
	NoOpUpdates         uint64        `json:"noop_updates"`
	StaleWrites         uint64        `json:"stale_writes"`
	ChatEntries         uint64        `json:"chat_entries"`
	MalformedEvents     uint64        `json:"malformed_events"`
	WorkerRestarts      uint64        `json:"worker_restarts"`
	AllocMemMb          uint64        `json:"alloc_mem_mb"`
	NumGC               uint32        `json:"num_gc"`
	Goroutines          int           `json:"goroutines"`
	Process             ProcessSample `json:"process"`
	Queues              []QueueSample `json:"queues"`
}

// HubStats collects hub counters. Counters are atomics so hot paths never lock.
type HubStats struct {
	log       *slog.Logger
	mu        sync.RWMutex
	startedAt time.Time
	process   ProcessSample
	queues    map[string]QueueSample

	Connections         uint64
	RejectedConnections uint64
	Broadcasts          uint64
	DeliveryFailures    uint64
	Coalesced           uint64
	NoOpUpdates         uint64
	StaleWrites         uint64
	ChatEntries         uint64
	MalformedEvents     uint64
	WorkerRestarts      uint64
}

func NewHubStats(log *slog.Logger) *HubStats {
	return &HubStats{
		log:       log,
		startedAt: time.Now(),
		queues:    make(map[string]QueueSample),
	}
}

func (s *HubStats) IncrConnections()         { atomic.AddUint64(&s.Connections, 1) }
func (s *HubStats) IncrRejectedConnections() { atomic.AddUint64(&s.RejectedConnections, 1) }
func (s *HubStats) IncrBroadcasts()          { atomic.AddUint64(&s.Broadcasts, 1) }
func (s *HubStats) IncrDeliveryFailures()    { atomic.AddUint64(&s.DeliveryFailures, 1) }
func (s *HubStats) IncrCoalesced()           { atomic.AddUint64(&s.Coalesced, 1) }
func (s *HubStats) IncrNoOpUpdates()         { atomic.AddUint64(&s.NoOpUpdates, 1) }
func (s *HubStats) IncrStaleWrites()         { atomic.AddUint64(&s.StaleWrites, 1) }
func (s *HubStats) IncrChatEntries()         { atomic.AddUint64(&s.ChatEntries, 1) }
func (s *HubStats) IncrMalformedEvents()     { atomic.AddUint64(&s.MalformedEvents, 1) }

// RecordWorkerRestart is the supervisor's restart hook.
func (s *HubStats) RecordWorkerRestart(worker string) {
	atomic.AddUint64(&s.WorkerRestarts, 1)
	s.log.Debug("Worker restart recorded", "worker", worker)
}

func (s *HubStats) RecordProcess(sample ProcessSample) {
	s.mu.Lock()
	s.process = sample
	s.mu.Unlock()
	s.log.Debug("Process sampled", "cpu_percent", sample.CPUPercent, "rss_bytes", sample.RSSBytes)
}

func (s *HubStats) RecordQueue(sample QueueSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[sample.Name] = sample
}

// ForgetQueue drops the sample of a channel that no longer exists.
func (s *HubStats) ForgetQueue(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, name)
}

// GetLatest builds a snapshot. participants and documents are gauges owned by the router.
func (s *HubStats) GetLatest(participants, documents int) HubSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s.mu.RLock()
	process := s.process
	queues := make([]QueueSample, 0, len(s.queues))
	for _, q := range s.queues {
		queues = append(queues, q)
	}
	s.mu.RUnlock()
	sort.Slice(queues, func(i, j int) bool { return queues[i].Name < queues[j].Name })

	return HubSnapshot{
		Status:              "ok",
		Uptime:              time.Since(s.startedAt).Round(time.Second).String(),
		Participants:        participants,
		Documents:           documents,
		Connections:         atomic.LoadUint64(&s.Connections),
		RejectedConnections: atomic.LoadUint64(&s.RejectedConnections),
		Broadcasts:          atomic.LoadUint64(&s.Broadcasts),
		DeliveryFailures:    atomic.LoadUint64(&s.DeliveryFailures),
		Coalesced:           atomic.LoadUint64(&s.Coalesced),
		NoOpUpdates:         atomic.LoadUint64(&s.NoOpUpdates),
		StaleWrites:         atomic.LoadUint64(&s.StaleWrites),
		ChatEntries:         atomic.LoadUint64(&s.ChatEntries),
		MalformedEvents:     atomic.LoadUint64(&s.MalformedEvents),
		WorkerRestarts:      atomic.LoadUint64(&s.WorkerRestarts),
		AllocMemMb:          m.Alloc / 1024 / 1024,
		NumGC:               m.NumGC,
		Goroutines:          runtime.NumGoroutine(),
		Process:             process,
		Queues:              queues,
	}
}
