package publish

import (
	"context"
	"errors"
	"testing"
)

type recorder struct {
	got []PlanMessage
	err error
}

func (r *recorder) PublishPlan(_ context.Context, m PlanMessage) error {
	r.got = append(r.got, m)
	return r.err
}

func TestMultiPublisher(t *testing.T) {
	a := &recorder{err: errors.New("broker down")}
	b := &recorder{}
	m := NewMultiPublisher(a, b, NopPublisher{})
	err := m.PublishPlan(context.Background(), PlanMessage{Day: 3})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Fatalf("every publisher must be attempted: %d %d", len(a.got), len(b.got))
	}
	if b.got[0].Day != 3 {
		t.Fatalf("unexpected message %+v", b.got[0])
	}
	if err := NewMultiPublisher(b).PublishPlan(context.Background(), PlanMessage{}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
