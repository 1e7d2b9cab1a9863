// Package publish defines how solved daily plans are announced to depot and
// operations systems.
package publish

import (
	"context"
	"errors"
)

// ErrPublish is returned when a plan could not be delivered to the broker.
var ErrPublish = errors.New("plan publish failed")

// PlanMessage is the payload announcing one day's duty lists.
type PlanMessage struct {
	MessageID   string   `json:"message_id"`
	Day         int      `json:"day"`
	Date        string   `json:"date"`
	Scenario    string   `json:"scenario"`
	Service     []string `json:"service"`
	Maintenance []string `json:"maintenance"`
	Standby     []string `json:"standby"`
	Objective   int64    `json:"objective"`
	Solver      string   `json:"solver"`
	PublishedAt int64    `json:"published_at"`
}

// Publisher announces daily plans.
type Publisher interface {
	PublishPlan(ctx context.Context, msg PlanMessage) error
}

// NopPublisher discards every plan.
type NopPublisher struct{}

func (NopPublisher) PublishPlan(context.Context, PlanMessage) error { return nil }

// MultiPublisher fans a plan out to several publishers. Every publisher is
// attempted; the errors are joined.
type MultiPublisher struct {
	pubs []Publisher
}

// NewMultiPublisher returns a publisher forwarding to pubs.
func NewMultiPublisher(pubs ...Publisher) *MultiPublisher {
	return &MultiPublisher{pubs: pubs}
}

func (m *MultiPublisher) PublishPlan(ctx context.Context, msg PlanMessage) error {
	var errs []error
	for _, p := range m.pubs {
		if err := p.PublishPlan(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
