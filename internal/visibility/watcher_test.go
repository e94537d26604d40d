package visibility

import "testing"

func TestCurrentStartsVisible(t *testing.T) {
	w := NewWatcher()
	if w.Current() != Visible {
		t.Errorf("Current() = %v, want Visible", w.Current())
	}
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	w := NewWatcher()
	ch := w.Subscribe()

	w.Set(Hidden)

	select {
	case v := <-ch:
		if v != Hidden {
			t.Errorf("received %v, want Hidden", v)
		}
	default:
		t.Fatal("no notification delivered")
	}

	if w.Current() != Hidden {
		t.Errorf("Current() = %v, want Hidden", w.Current())
	}
}

func TestSetSameValueIsNoOp(t *testing.T) {
	w := NewWatcher()
	ch := w.Subscribe()

	w.Set(Visible)

	select {
	case v := <-ch:
		t.Errorf("unexpected notification %v", v)
	default:
	}
}

func TestSlowSubscriberCoalescesToLatest(t *testing.T) {
	w := NewWatcher()
	ch := w.Subscribe()

	w.Set(Hidden)
	w.Set(Visible)
	w.Set(Hidden)

	select {
	case v := <-ch:
		if v != Hidden {
			t.Errorf("received %v, want latest value Hidden", v)
		}
	default:
		t.Fatal("no notification delivered")
	}

	select {
	case v := <-ch:
		t.Errorf("second notification %v, want none", v)
	default:
	}
}
