// Package service implements the reservation workflows on top of the
// repository, the availability engine and the notification queue.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// Store is the persistence the services need.  *repository.Store
// implements it.
type Store interface {
	repository.Querier
	RunInTx(ctx context.Context, fn func(q repository.Querier) error) error
}

// Publisher emits reservation events.  *queue.Publisher implements it.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// Recorder receives business metrics.  *metrics.Metrics implements it.
type Recorder interface {
	ReservationChanged(op string)
	Overbooked(n int)
	Notification(stage string, err error)
}

type nopRecorder struct{}

func (nopRecorder) ReservationChanged(string)  {}
func (nopRecorder) Overbooked(int)             {}
func (nopRecorder) Notification(string, error) {}

// publishTimeout bounds a single background publish.
const publishTimeout = 10 * time.Second
