package userboard

import (
	"bytes"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore creates a store seeded with example1.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := New(WithSeed(example1), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return st
}

// recorder is an Observer that keeps every state it is handed.
type recorder struct {
	mu     sync.Mutex
	states [][]UserRecord
}

func (r *recorder) OnStateChange(users []UserRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, users)
}

func (r *recorder) received() [][]UserRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]UserRecord(nil), r.states...)
}

func TestStore_Scenario(t *testing.T) {
	st := newTestStore(t)

	if got, want := st.GetState(), []UserRecord{example1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("initial GetState() = %v, want %v", got, want)
	}

	st.Dispatch(AddUser{Record: joe})
	if got, want := st.GetState(), []UserRecord{example1, joe}; !reflect.DeepEqual(got, want) {
		t.Errorf("after add joe GetState() = %v, want %v", got, want)
	}

	st.Dispatch(AddUser{Record: jose})
	if got, want := st.GetState(), []UserRecord{example1, joe, jose}; !reflect.DeepEqual(got, want) {
		t.Errorf("after add jose GetState() = %v, want %v", got, want)
	}

	st.Dispatch(RemoveAllUsers{})
	if got := st.GetState(); len(got) != 0 {
		t.Errorf("after remove all GetState() = %v, want empty", got)
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0", st.Len())
	}
}

func TestStore_MatchesFold(t *testing.T) {
	actions := []Action{
		AddUser{Record: joe},
		RemoveAllUsers{},
		AddUser{Record: jose},
		AddUser{Record: joe},
		AddUser{Record: example1},
		RemoveAllUsers{},
		AddUser{Record: jose},
	}

	// check the fold property after every prefix of the sequence
	for n := 0; n <= len(actions); n++ {
		st := newTestStore(t)
		for _, a := range actions[:n] {
			st.Dispatch(a)
		}

		want := Fold([]UserRecord{example1}, actions[:n]...)
		if got := st.GetState(); !reflect.DeepEqual(got, want) {
			t.Errorf("after %d actions GetState() = %v, want %v", n, got, want)
		}
	}
}

func TestStore_GetStateReturnsCopy(t *testing.T) {
	st := newTestStore(t)

	got := st.GetState()
	got[0] = joe

	if st.GetState()[0] != example1 {
		t.Error("modifying GetState() result changed the store")
	}
}

func TestStore_ObserverReceivesPostDispatchState(t *testing.T) {
	st := newTestStore(t)
	rec := &recorder{}
	st.Subscribe(rec)

	st.Dispatch(AddUser{Record: joe})
	st.Dispatch(RemoveAllUsers{})

	got := rec.received()
	want := [][]UserRecord{{example1, joe}, {}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("observer received %v, want %v", got, want)
	}
}

func TestStore_SubscribeUnsubscribeScenario(t *testing.T) {
	st := newTestStore(t)
	x := UserRecord{Username: "x", Email: "x@yopmail.com"}
	y := UserRecord{Username: "y", Email: "y@yopmail.com"}

	o1 := &recorder{}
	id := st.Subscribe(o1)

	st.Dispatch(AddUser{Record: x})

	got := o1.received()
	if len(got) != 1 {
		t.Fatalf("O1 received %d notifications, want 1", len(got))
	}
	if want := []UserRecord{example1, x}; !reflect.DeepEqual(got[0], want) {
		t.Errorf("O1 received %v, want %v", got[0], want)
	}

	st.Unsubscribe(id)
	st.Dispatch(AddUser{Record: y})

	if n := len(o1.received()); n != 1 {
		t.Errorf("O1 received %d notifications after unsubscribe, want 1", n)
	}
}

func TestStore_NotifiesInSubscriptionOrder(t *testing.T) {
	st := newTestStore(t)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		st.Subscribe(ObserverFunc(func([]UserRecord) {
			order = append(order, i)
		}))
	}

	st.Dispatch(AddUser{Record: joe})

	want := []int{0, 1, 2, 3, 4}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("notification order = %v, want %v", order, want)
	}
}

func TestStore_DuplicateSubscriptions(t *testing.T) {
	st := newTestStore(t)
	rec := &recorder{}

	id1 := st.Subscribe(rec)
	id2 := st.Subscribe(rec)
	if id1 == id2 {
		t.Fatal("Subscribe() returned the same id twice")
	}

	st.Dispatch(AddUser{Record: joe})
	if n := len(rec.received()); n != 2 {
		t.Errorf("duplicate subscription received %d notifications, want 2", n)
	}

	// removing one registration leaves the other in place
	st.Unsubscribe(id1)
	st.Dispatch(AddUser{Record: jose})
	if n := len(rec.received()); n != 3 {
		t.Errorf("received %d notifications, want 3", n)
	}

	st.Unsubscribe(id2)
	st.Dispatch(RemoveAllUsers{})
	if n := len(rec.received()); n != 3 {
		t.Errorf("received %d notifications after full unsubscribe, want 3", n)
	}
}

func TestStore_UnsubscribeUnknownID(t *testing.T) {
	st := newTestStore(t)
	rec := &recorder{}
	id := st.Subscribe(rec)

	// must not panic or affect other subscriptions
	st.Unsubscribe(SubscriptionID{})
	st.Unsubscribe(id)
	st.Unsubscribe(id)

	st.Dispatch(AddUser{Record: joe})
	if n := len(rec.received()); n != 0 {
		t.Errorf("received %d notifications, want 0", n)
	}
}

func TestStore_SubscribeNil(t *testing.T) {
	st := newTestStore(t)

	id := st.Subscribe(nil)
	if !id.IsZero() {
		t.Errorf("Subscribe(nil) = %v, want zero id", id)
	}

	// dispatch must not try to call the nil observer
	st.Dispatch(AddUser{Record: joe})
}

func TestStore_ObserversReceiveIndependentCopies(t *testing.T) {
	st := newTestStore(t)

	st.Subscribe(ObserverFunc(func(users []UserRecord) {
		users[0] = UserRecord{Username: "mutated"}
	}))
	second := &recorder{}
	st.Subscribe(second)

	st.Dispatch(AddUser{Record: joe})

	if got := second.received()[0][0]; got != example1 {
		t.Errorf("second observer saw %v, want %v", got, example1)
	}
	if got := st.GetState()[0]; got != example1 {
		t.Errorf("store state saw %v, want %v", got, example1)
	}
}

func TestStore_ObserverPanicIsRecovered(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	st, err := New(WithSeed(example1), WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	st.Subscribe(ObserverFunc(func([]UserRecord) {
		panic("boom")
	}))
	after := &recorder{}
	st.Subscribe(after)

	st.Dispatch(AddUser{Record: joe})

	if n := len(after.received()); n != 1 {
		t.Errorf("observer after panicking one received %d notifications, want 1", n)
	}
	if got := st.GetState(); len(got) != 2 {
		t.Errorf("GetState() = %v, want 2 records", got)
	}

	logs := buf.String()
	if !strings.Contains(logs, "observer panicked") {
		t.Errorf("expected panic to be logged, got: %s", logs)
	}
	if !strings.Contains(logs, "correlation_id") {
		t.Errorf("expected correlation_id in log, got: %s", logs)
	}
}

func TestStore_ObserverCanUnsubscribeItself(t *testing.T) {
	st := newTestStore(t)

	calls := 0
	var id SubscriptionID
	id = st.Subscribe(ObserverFunc(func(users []UserRecord) {
		calls++
		st.Unsubscribe(id)
	}))
	other := &recorder{}
	st.Subscribe(other)

	st.Dispatch(AddUser{Record: joe})
	st.Dispatch(AddUser{Record: jose})

	if calls != 1 {
		t.Errorf("self-unsubscribing observer called %d times, want 1", calls)
	}
	if n := len(other.received()); n != 2 {
		t.Errorf("other observer received %d notifications, want 2", n)
	}
}

func TestStore_ObserverCanReadState(t *testing.T) {
	st := newTestStore(t)

	var seen []UserRecord
	st.Subscribe(ObserverFunc(func([]UserRecord) {
		seen = st.GetState()
	}))

	st.Dispatch(AddUser{Record: joe})

	if want := []UserRecord{example1, joe}; !reflect.DeepEqual(seen, want) {
		t.Errorf("GetState() inside observer = %v, want %v", seen, want)
	}
}

func TestStore_DispatchNilPanicsWithoutLockingStore(t *testing.T) {
	st := newTestStore(t)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Dispatch(nil) did not panic")
			}
		}()
		st.Dispatch(nil)
	}()

	// store must still be usable after the panic
	st.Dispatch(AddUser{Record: joe})
	if got := st.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestStore_DispatchNilPointerLeavesStateAndObservers(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{name: "add user", action: (*AddUser)(nil)},
		{name: "remove all users", action: (*RemoveAllUsers)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			before := st.GetState()

			calls := 0
			st.Subscribe(ObserverFunc(func([]UserRecord) { calls++ }))

			func() {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("Dispatch(%T(nil)) did not panic", tt.action)
					}
				}()
				st.Dispatch(tt.action)
			}()

			if got := st.GetState(); !reflect.DeepEqual(got, before) {
				t.Errorf("GetState() = %v, want unchanged %v", got, before)
			}
			if calls != 0 {
				t.Errorf("observer called %d times, want 0", calls)
			}

			st.Dispatch(&RemoveAllUsers{})
			if calls != 1 || st.Len() != 0 {
				t.Errorf("after valid dispatch: calls = %d, Len() = %d, want 1, 0", calls, st.Len())
			}
		})
	}
}

func TestStore_ConcurrentDispatchIsSerialized(t *testing.T) {
	st, err := New(WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// each notification must be exactly one record longer than the previous
	var mu sync.Mutex
	lengths := []int{}
	st.Subscribe(ObserverFunc(func(users []UserRecord) {
		mu.Lock()
		defer mu.Unlock()
		lengths = append(lengths, len(users))
	}))

	var wg sync.WaitGroup
	numGoroutines := 10
	numDispatches := 50

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numDispatches; j++ {
				st.Dispatch(AddUser{Record: joe})
			}
		}()
	}

	// concurrent reads and subscription churn
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numDispatches; j++ {
				_ = st.GetState()
				id := st.Subscribe(ObserverFunc(func([]UserRecord) {}))
				st.Unsubscribe(id)
			}
		}()
	}

	wg.Wait()

	total := numGoroutines * numDispatches
	if st.Len() != total {
		t.Fatalf("Len() = %d, want %d", st.Len(), total)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(lengths) != total {
		t.Fatalf("observer notified %d times, want %d", len(lengths), total)
	}
	for i, n := range lengths {
		if n != i+1 {
			t.Fatalf("notification %d carried %d users, want %d", i, n, i+1)
		}
	}
}
