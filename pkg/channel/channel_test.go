package channel

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/quoteboard/internal/errors"
)

type testAnchor struct {
	id     uint64
	parent *testAnchor
}

func (a *testAnchor) AnchorID() uint64 { return a.id }

func (a *testAnchor) AnchorParent() Anchor {
	if a.parent == nil {
		return nil
	}
	return a.parent
}

func newTestHub(t *testing.T) (*Hub, *[]error) {
	t.Helper()
	var reported []error
	hub := NewHub(WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))
	return hub, &reported
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	hub, reported := newTestHub(t)
	ch, err := Named[string](hub, "symbol.selected")
	if err != nil {
		t.Fatalf("Named: %v", err)
	}

	var got []string
	ch.Subscribe(Global(), func(string) error { panic("boom") })
	ch.Subscribe(Global(), func(s string) error {
		got = append(got, s)
		return nil
	})

	if n := ch.Publish(nil, "x"); n != 2 {
		t.Errorf("delivered = %d, want 2", n)
	}
	if len(got) != 1 || got[0] != "x" {
		t.Errorf("second subscriber got %v, want [x]", got)
	}
	if len(*reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(*reported))
	}
	if errors.CodeOf((*reported)[0]) != "E300" {
		t.Errorf("code = %q, want E300", errors.CodeOf((*reported)[0]))
	}
}

func TestErroringSubscriberIsReported(t *testing.T) {
	hub, reported := newTestHub(t)
	ch, _ := Named[int](hub, "numbers")
	sentinel := stderrors.New("nope")

	calls := 0
	ch.Subscribe(Global(), func(int) error { return sentinel })
	ch.Subscribe(Global(), func(int) error {
		calls++
		return nil
	})
	ch.Publish(nil, 1)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(*reported) != 1 || !stderrors.Is((*reported)[0], sentinel) {
		t.Errorf("reported = %v, want wrapped sentinel", *reported)
	}
}

func TestLateSubscriberGetsNoReplay(t *testing.T) {
	hub, _ := newTestHub(t)
	ch, _ := Named[string](hub, "c")
	ch.Subscribe(Global(), func(string) error { return nil })
	ch.Publish(nil, "early")

	var got []string
	ch.Subscribe(Global(), func(s string) error {
		got = append(got, s)
		return nil
	})
	if len(got) != 0 {
		t.Fatalf("late subscriber received %v", got)
	}
	ch.Publish(nil, "late")
	if len(got) != 1 || got[0] != "late" {
		t.Errorf("got %v, want [late]", got)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub, _ := newTestHub(t)
	if err := Publish(hub, "nobody", nil, 42); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if hub.Len() != 0 {
		t.Errorf("hub created %d channels", hub.Len())
	}
	ch, _ := Named[int](hub, "empty")
	if n := ch.Publish(nil, 1); n != 0 {
		t.Errorf("delivered = %d, want 0", n)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	hub, _ := newTestHub(t)
	ch, _ := Named[string](hub, "c")
	calls := 0
	a := ch.Subscribe(Global(), func(string) error {
		calls++
		return nil
	})
	b := ch.Subscribe(Global(), func(string) error { return nil })

	a.Cancel()
	ch.Unsubscribe(a)
	a.Cancel()

	if a.Active() {
		t.Error("cancelled subscription still active")
	}
	if ch.Len() != 1 {
		t.Errorf("Len = %d, want 1", ch.Len())
	}
	ch.Publish(nil, "x")
	if calls != 0 {
		t.Errorf("cancelled handler called %d times", calls)
	}
	if !b.Active() {
		t.Error("other subscription affected by cancel")
	}
}

func TestHubForgetsEmptyChannel(t *testing.T) {
	hub, _ := newTestHub(t)
	ch, _ := Named[string](hub, "c")
	sub := ch.Subscribe(Global(), func(string) error { return nil })
	if hub.Len() != 1 {
		t.Fatalf("hub Len = %d, want 1", hub.Len())
	}
	sub.Cancel()
	if hub.Len() != 0 {
		t.Errorf("hub Len = %d after last cancel, want 0", hub.Len())
	}

	// The stale handle re-registers itself on the next subscribe.
	got := ""
	ch.Subscribe(Global(), func(s string) error {
		got = s
		return nil
	})
	if err := Publish(hub, "c", nil, "again"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got != "again" {
		t.Errorf("got %q, want again", got)
	}
}

func TestTypeMismatch(t *testing.T) {
	hub, _ := newTestHub(t)
	if _, err := Named[string](hub, "c"); err != nil {
		t.Fatalf("Named: %v", err)
	}
	if _, err := Named[int](hub, "c"); errors.CodeOf(err) != "E404" {
		t.Errorf("Named mismatch code = %q, want E404", errors.CodeOf(err))
	}
	if err := Publish(hub, "c", nil, 1); errors.CodeOf(err) != "E404" {
		t.Errorf("Publish mismatch code = %q, want E404", errors.CodeOf(err))
	}
}

func TestLocalScope(t *testing.T) {
	root := &testAnchor{id: 1}
	left := &testAnchor{id: 2, parent: root}
	leaf := &testAnchor{id: 3, parent: left}
	right := &testAnchor{id: 4, parent: root}

	tests := []struct {
		name   string
		origin Anchor
		want   bool
	}{
		{"anchor itself", left, true},
		{"descendant", leaf, true},
		{"sibling", right, false},
		{"ancestor", root, false},
		{"no origin", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub, _ := newTestHub(t)
			ch, _ := Named[string](hub, "c")
			local, global := false, false
			ch.Subscribe(Local(left), func(string) error {
				local = true
				return nil
			})
			ch.Subscribe(Global(), func(string) error {
				global = true
				return nil
			})
			ch.Publish(tt.origin, "x")
			if local != tt.want {
				t.Errorf("local delivered = %v, want %v", local, tt.want)
			}
			if !global {
				t.Error("global subscriber missed publish")
			}
		})
	}
}

func TestSubscribeDuringPublishUsesSnapshot(t *testing.T) {
	hub, _ := newTestHub(t)
	ch, _ := Named[string](hub, "c")
	added := 0
	ch.Subscribe(Global(), func(string) error {
		ch.Subscribe(Global(), func(string) error {
			added++
			return nil
		})
		return nil
	})
	if n := ch.Publish(nil, "x"); n != 1 {
		t.Errorf("delivered = %d, want 1", n)
	}
	if added != 0 {
		t.Errorf("subscriber added mid-publish was called %d times", added)
	}
}

func TestCancelDuringPublishStillDeliversSnapshot(t *testing.T) {
	hub, _ := newTestHub(t)
	ch, _ := Named[string](hub, "c")
	var second *Subscription
	calls := 0
	ch.Subscribe(Global(), func(string) error {
		second.Cancel()
		return nil
	})
	second = ch.Subscribe(Global(), func(string) error {
		calls++
		return nil
	})
	ch.Publish(nil, "x")
	if calls != 1 {
		t.Errorf("snapshot subscriber calls = %d, want 1", calls)
	}
	ch.Publish(nil, "y")
	if calls != 1 {
		t.Errorf("cancelled subscriber called again")
	}
}
