package hotkey

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestHook(t *testing.T) (*Hook, *Fake) {
	t.Helper()
	fk := NewFake()
	h, err := New(WithBackend(fk))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		h.Close()
		waitDone(t, h)
	})
	return h, fk
}

func waitDone(t *testing.T, h *Hook) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hook shutdown")
	}
}

// recorder collects the keys whose callbacks ran, in order.
type recorder struct {
	ch chan Key
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Key, 64)}
}

func (r *recorder) cb(k Key) func() {
	return func() { r.ch <- k }
}

func (r *recorder) next(t *testing.T) Key {
	t.Helper()
	select {
	case k := <-r.ch:
		return k
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for callback")
		return 0
	}
}

func (r *recorder) none(t *testing.T) {
	t.Helper()
	select {
	case k := <-r.ch:
		t.Fatalf("unexpected callback for %s", k)
	case <-time.After(30 * time.Millisecond):
	}
}

func press(t *testing.T, fk *Fake, keys ...Key) {
	t.Helper()
	for _, k := range keys {
		if !fk.SimKeydown(k) {
			t.Fatalf("hook stopped before %s was delivered", k)
		}
		fk.SimKeyup(k)
	}
}

func TestHookFiresRegisteredCallback(t *testing.T) {
	h, fk := newTestHook(t)
	rec := newRecorder()
	if err := h.Register(Numpad1, rec.cb(Numpad1)); err != nil {
		t.Fatal(err)
	}
	press(t, fk, Numpad1)
	if got := rec.next(t); got != Numpad1 {
		t.Errorf("fired %s, want Numpad1", got)
	}
}

func TestHookDuplicateRegistrationKeepsFirst(t *testing.T) {
	h, fk := newTestHook(t)
	var first, second atomic.Int32
	done := make(chan struct{}, 4)
	h.Register(F9, func() { first.Add(1); done <- struct{}{} })

	err := h.Register(F9, func() { second.Add(1); done <- struct{}{} })
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("Register = %v, want ErrAlreadyRegistered", err)
	}

	press(t, fk, F9)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for callback")
	}
	if first.Load() != 1 || second.Load() != 0 {
		t.Errorf("first=%d second=%d, want 1 and 0", first.Load(), second.Load())
	}
}

func TestHookUnregister(t *testing.T) {
	h, fk := newTestHook(t)
	rec := newRecorder()

	if err := h.Unregister(A); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("Unregister = %v, want ErrNotRegistered", err)
	}

	h.Register(A, rec.cb(A))
	h.Register(B, rec.cb(B))
	if err := h.Unregister(A); err != nil {
		t.Fatal(err)
	}
	// B fires after A is ignored, so ordering proves A was dropped.
	press(t, fk, A, B)
	if got := rec.next(t); got != B {
		t.Fatalf("fired %s, want B", got)
	}
	rec.none(t)

	if err := h.Register(A, rec.cb(A)); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	press(t, fk, A)
	if got := rec.next(t); got != A {
		t.Errorf("fired %s, want A", got)
	}
}

func TestHookPreservesOrder(t *testing.T) {
	h, fk := newTestHook(t)
	rec := newRecorder()
	for _, k := range []Key{A, B, C} {
		h.Register(k, rec.cb(k))
	}

	seq := []Key{A, B, A, C, B, C, C, A}
	press(t, fk, seq...)

	var got []Key
	for range seq {
		got = append(got, rec.next(t))
	}
	if !slices.Equal(got, seq) {
		t.Errorf("fired %v, want %v", got, seq)
	}
}

func TestHookIgnoresKeyUpAndUnknownCodes(t *testing.T) {
	h, fk := newTestHook(t)
	rec := newRecorder()
	h.Register(Numpad0, rec.cb(Numpad0))
	h.Register(F12, rec.cb(F12))

	fk.SimKeyup(Numpad0)
	fk.SimNative(0, true)
	fk.SimNative(0x07, true)
	fk.SimNative(0xFF, true)
	fk.SimNative(0x1060, true)
	fk.SimKeydown(F12)

	if got := rec.next(t); got != F12 {
		t.Fatalf("fired %s, want F12", got)
	}
	rec.none(t)
}

func TestHookAutorepeatFiresEachTime(t *testing.T) {
	h, fk := newTestHook(t)
	rec := newRecorder()
	h.Register(Space, rec.cb(Space))

	fk.SimKeydown(Space)
	fk.SimKeydown(Space)
	fk.SimKeydown(Space)
	fk.SimKeyup(Space)

	for i := 0; i < 3; i++ {
		rec.next(t)
	}
	rec.none(t)
}

func TestHookCallbacksDoNotOverlap(t *testing.T) {
	h, fk := newTestHook(t)
	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	cb := func() {
		defer wg.Done()
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(2 * time.Millisecond)
		active.Add(-1)
	}
	h.Register(Numpad7, cb)
	h.Register(Numpad8, cb)

	wg.Add(20)
	for i := 0; i < 10; i++ {
		press(t, fk, Numpad7, Numpad8)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for callbacks")
	}
	if maxActive.Load() != 1 {
		t.Errorf("max concurrent callbacks = %d, want 1", maxActive.Load())
	}
}

func TestHookNumpadScenario(t *testing.T) {
	h, fk := newTestHook(t)
	var mu sync.Mutex
	var log []string
	fired := make(chan struct{}, 8)
	record := func(s string) func() {
		return func() {
			mu.Lock()
			log = append(log, s)
			mu.Unlock()
			fired <- struct{}{}
		}
	}
	h.Register(Numpad1, record("split"))
	h.Register(Numpad0, record("reset"))

	press(t, fk, Numpad1, Numpad1, Numpad0, Digit1)
	for i := 0; i < 3; i++ {
		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for callbacks")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"split", "split", "reset"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestHookUnregisterThenRegisterOtherKey(t *testing.T) {
	h, fk := newTestHook(t)
	var a, b atomic.Int32
	fired := make(chan struct{}, 8)

	if err := h.Register(Numpad0, func() { a.Add(1); fired <- struct{}{} }); err != nil {
		t.Fatal(err)
	}
	press(t, fk, Numpad0)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Numpad0")
	}

	if err := h.Unregister(Numpad0); err != nil {
		t.Fatal(err)
	}
	press(t, fk, Numpad0)

	if err := h.Register(Numpad1, func() { b.Add(1); fired <- struct{}{} }); err != nil {
		t.Fatal(err)
	}
	press(t, fk, Numpad1)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Numpad1")
	}
	time.Sleep(30 * time.Millisecond)

	if n := a.Load(); n != 1 {
		t.Errorf("Numpad0 callback ran %d times, want 1", n)
	}
	if n := b.Load(); n != 1 {
		t.Errorf("Numpad1 callback ran %d times, want 1", n)
	}
}

func TestHookCloseStopsPendingDispatch(t *testing.T) {
	h, fk := newTestHook(t)
	var calls atomic.Int32
	h.Register(A, func() { calls.Add(1) })

	// Park the dispatcher between popping the press and running its callback.
	h.registry.mu.Lock()
	press(t, fk, A)
	time.Sleep(20 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- h.Close() }()
	time.Sleep(20 * time.Millisecond)
	h.registry.mu.Unlock()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
	waitDone(t, h)
	if n := calls.Load(); n != 0 {
		t.Errorf("callback started after Close returned (%d calls)", n)
	}
}

func TestHookNoCallbackAfterClose(t *testing.T) {
	h, fk := newTestHook(t)
	var calls atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	h.Register(Enter, func() {
		if calls.Add(1) == 1 {
			started <- struct{}{}
			<-release
		}
	})

	press(t, fk, Enter)
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first callback")
	}
	press(t, fk, Enter, Enter)

	// Close waits for the running callback, so release it from here.
	closed := make(chan error, 1)
	go func() { closed <- h.Close() }()
	time.Sleep(20 * time.Millisecond)
	close(release)
	select {
	case err := <-closed:
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the running callback finished")
	}
	waitDone(t, h)

	time.Sleep(30 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("callbacks = %d, want 1 (only the one running at Close)", n)
	}
	if fk.SimKeydown(Enter) {
		t.Error("backend still pumping after shutdown")
	}
	select {
	case <-fk.Uninstalled():
	default:
		t.Error("hook was not uninstalled")
	}
}

func TestHookCloseIdempotent(t *testing.T) {
	h, _ := newTestHook(t)
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.Wait(ctx); err != nil {
		t.Errorf("Wait = %v, want nil", err)
	}
}

func TestHookWaitHonorsContext(t *testing.T) {
	h, _ := newTestHook(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait = %v, want context.Canceled", err)
	}
}

func TestHookInstallFailure(t *testing.T) {
	before := runtime.NumGoroutine()

	fk := NewFake()
	fk.FailInstall(errors.New("access denied"))
	h, err := New(WithBackend(fk))
	if h != nil {
		t.Error("New returned a hook on failure")
	}
	if !errors.Is(err, ErrInstall) {
		t.Fatalf("New = %v, want ErrInstall", err)
	}
	if !strings.Contains(err.Error(), "access denied") {
		t.Errorf("error %q lost the OS reason", err)
	}

	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines = %d, want <= %d", runtime.NumGoroutine(), before)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHookEventLoopFailure(t *testing.T) {
	h, fk := newTestHook(t)
	rec := newRecorder()
	h.Register(F1, rec.cb(F1))

	fk.SimPumpError(errors.New("queue broken"))
	waitDone(t, h)

	if err := h.Err(); !errors.Is(err, ErrEventLoop) {
		t.Errorf("Err = %v, want ErrEventLoop", err)
	}
	select {
	case <-fk.Uninstalled():
	default:
		t.Error("hook was not uninstalled after event loop failure")
	}
	if fk.SimKeydown(F1) {
		t.Error("backend accepted events after failure")
	}
	rec.none(t)
}

func TestHookRecoversCallbackPanic(t *testing.T) {
	h, fk := newTestHook(t)
	rec := newRecorder()
	h.Register(A, func() { panic("boom") })
	h.Register(B, rec.cb(B))

	press(t, fk, A, B)
	if got := rec.next(t); got != B {
		t.Errorf("fired %s, want B", got)
	}
}

func TestHookRejectsInvalidKey(t *testing.T) {
	h, _ := newTestHook(t)
	if err := h.Register(Key(0x07), func() {}); err == nil {
		t.Fatal("expected error for key outside the catalog")
	}
	if len(h.Registered()) != 0 {
		t.Errorf("Registered = %v", h.Registered())
	}
}

func TestHookConcurrentRegistration(t *testing.T) {
	h, _ := newTestHook(t)
	keys := []Key{F1, F2, F3, F4, F5, F6, F7, F8}
	var wg sync.WaitGroup
	var dup atomic.Int32
	for i := 0; i < 4; i++ {
		for _, k := range keys {
			wg.Add(1)
			go func(k Key) {
				defer wg.Done()
				if err := h.Register(k, func() {}); errors.Is(err, ErrAlreadyRegistered) {
					dup.Add(1)
				}
			}(k)
		}
	}
	wg.Wait()
	if got := h.Registered(); !slices.Equal(got, keys) {
		t.Errorf("Registered = %v, want %v", got, keys)
	}
	if dup.Load() != int32(3*len(keys)) {
		t.Errorf("duplicates = %d, want %d", dup.Load(), 3*len(keys))
	}
}

// watchingFake records Watch/Unwatch calls and can refuse keys.
type watchingFake struct {
	*Fake
	mu      sync.Mutex
	refuse  Key
	watched []Key
}

func (w *watchingFake) Watch(k Key) error {
	if k == w.refuse {
		return errors.New("hot key taken by another program")
	}
	w.mu.Lock()
	w.watched = append(w.watched, k)
	w.mu.Unlock()
	return nil
}

func (w *watchingFake) Unwatch(k Key) {
	w.mu.Lock()
	w.watched = slices.DeleteFunc(w.watched, func(x Key) bool { return x == k })
	w.mu.Unlock()
}

func TestHookKeyWatcher(t *testing.T) {
	wf := &watchingFake{Fake: NewFake(), refuse: F10}
	h, err := New(WithBackend(wf))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		h.Close()
		waitDone(t, h)
	}()

	if err := h.Register(F9, func() {}); err != nil {
		t.Fatal(err)
	}
	err = h.Register(F10, func() {})
	if !errors.Is(err, ErrInstall) {
		t.Fatalf("Register(F10) = %v, want ErrInstall", err)
	}
	if got := h.Registered(); !slices.Equal(got, []Key{F9}) {
		t.Errorf("Registered = %v, want [F9] after rollback", got)
	}

	h.Unregister(F9)
	wf.mu.Lock()
	defer wf.mu.Unlock()
	if len(wf.watched) != 0 {
		t.Errorf("still watching %v", wf.watched)
	}
}

// racingFake delivers a press of the key it refuses while Watch is running.
type racingFake struct {
	*Fake
	refuse Key
}

func (r *racingFake) Watch(k Key) error {
	if k != r.refuse {
		return nil
	}
	r.SimKeydown(k)
	time.Sleep(20 * time.Millisecond)
	return errors.New("hot key taken by another program")
}

func (r *racingFake) Unwatch(Key) {}

func TestHookRefusedKeyNeverFires(t *testing.T) {
	rf := &racingFake{Fake: NewFake(), refuse: F11}
	h, err := New(WithBackend(rf))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		h.Close()
		waitDone(t, h)
	}()

	rec := newRecorder()
	if err := h.Register(F11, rec.cb(F11)); !errors.Is(err, ErrInstall) {
		t.Fatalf("Register(F11) = %v, want ErrInstall", err)
	}
	rec.none(t)
}

// panickingFake panics inside its event loop.
type panickingFake struct {
	*Fake
}

func (p *panickingFake) Pump() error {
	panic("event loop blew up")
}

func TestHookUninstallsAfterPumpPanic(t *testing.T) {
	pf := &panickingFake{Fake: NewFake()}
	h, err := New(WithBackend(pf))
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, h)
	select {
	case <-pf.Uninstalled():
	default:
		t.Error("hook left installed after the event loop panicked")
	}
	if err := h.Err(); !errors.Is(err, ErrThreadCommunication) {
		t.Errorf("Err = %v, want ErrThreadCommunication", err)
	}
}
