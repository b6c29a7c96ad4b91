package workers

import (
	"collab-hub/observability"
	"context"
	"log/slog"
	"reflect"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically reports the current channel capacity and length.
// Reading len(channel) and cap(channel) is non-blocking, so this won't interfere
// with other goroutines. The channel list is pulled on every tick because
// document queues come and go with the session.
type ChannelCapacityWorker struct {
	log              *slog.Logger
	channels         func() []NamedChannel
	stats            *observability.HubStats
	metricInterval   time.Duration
	thresholdPercent int
	seen             map[string]struct{}
}

func NewChannelCapacityWorker(log *slog.Logger, channels func() []NamedChannel,
	stats *observability.HubStats, metricInterval time.Duration, thresholdPercent int) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:              log,
		channels:         channels,
		stats:            stats,
		metricInterval:   metricInterval,
		thresholdPercent: thresholdPercent,
		seen:             make(map[string]struct{}),
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity sampling")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w *ChannelCapacityWorker) sample() {
	current := make(map[string]struct{})
	defer func() {
		for name := range w.seen {
			if _, ok := current[name]; !ok {
				w.stats.ForgetQueue(name)
			}
		}
		w.seen = current
	}()
	for _, nc := range w.channels() {
		current[nc.Name] = struct{}{}
		v := reflect.ValueOf(nc.Channel)
		// Verify if this is a channel
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		capacity := v.Cap()
		length := v.Len()
		w.stats.RecordQueue(observability.QueueSample{Name: nc.Name, Length: length, Capacity: capacity})
		if capacity > 0 && length*100 >= capacity*w.thresholdPercent {
			w.log.Warn("Queue under pressure", "name", nc.Name, "length", length, "capacity", capacity)
		}
	}
}
