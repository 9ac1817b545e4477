package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/listings/internal/metrics"
	"github.com/persistorai/listings/internal/models"
)

// ChangeEnqueuer accepts committed change batches for post-commit processing.
type ChangeEnqueuer interface {
	Enqueue(changes []models.PropertyChange)
}

// ChangeFeed receives committed change batches, e.g. to push them to live subscribers.
type ChangeFeed interface {
	PublishChanges(changes []models.PropertyChange)
}

// ChangeWorker buffers committed change batches and publishes them (metrics,
// info logs and any feeds) from a single goroutine, off the request path.
type ChangeWorker struct {
	log   *logrus.Logger
	jobs  chan []models.PropertyChange
	feeds []ChangeFeed
}

// NewChangeWorker creates a ChangeWorker with the given queue capacity.
func NewChangeWorker(log *logrus.Logger, queueSize int, feeds ...ChangeFeed) *ChangeWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}

	return &ChangeWorker{
		log:   log,
		jobs:  make(chan []models.PropertyChange, queueSize),
		feeds: feeds,
	}
}

// Enqueue adds a committed batch. Non-blocking; when the queue is full the
// batch is published inline so no committed change goes uncounted. An inline
// batch can reach feeds ahead of queued ones; feed order is best effort.
func (w *ChangeWorker) Enqueue(changes []models.PropertyChange) {
	if len(changes) == 0 {
		return
	}

	select {
	case w.jobs <- changes:
		metrics.ChangeQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithField("property_id", changes[0].PropertyID).Warn("change queue full, publishing inline")
		w.publish(changes)
	}
}

// Run processes batches until the context is cancelled, then drains remaining batches.
func (w *ChangeWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case batch := <-w.jobs:
			metrics.ChangeQueueDepth.Set(float64(len(w.jobs)))
			w.publish(batch)
		}
	}
}

func (w *ChangeWorker) drain() {
	for {
		select {
		case batch := <-w.jobs:
			w.publish(batch)
		default:
			metrics.ChangeQueueDepth.Set(0)
			return
		}
	}
}

func (w *ChangeWorker) publish(changes []models.PropertyChange) {
	publishChanges(w.log, changes)

	for _, f := range w.feeds {
		f.PublishChanges(changes)
	}
}

// publishChanges records one metric increment and one info line per row.
func publishChanges(log *logrus.Logger, changes []models.PropertyChange) {
	for _, c := range changes {
		metrics.PropertyChangesTotal.WithLabelValues(c.ChangedField).Inc()

		log.WithFields(logrus.Fields{
			"action":        "property.change",
			"property_id":   c.PropertyID,
			"changed_field": c.ChangedField,
			"old_value":     c.OldValue,
			"new_value":     c.NewValue,
		}).Info("property field changed")
	}
}
