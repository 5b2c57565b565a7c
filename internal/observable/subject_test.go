package observable_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nikolayk812/storefront/internal/observable"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubjectPublishInOrder(t *testing.T) {
	var (
		subject observable.Subject[int]
		got     []string
	)

	subject.Subscribe(func(v int) { got = append(got, "a") })
	subject.Subscribe(func(v int) { got = append(got, "b") })

	subject.Publish(1, 1)

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSubjectUnsubscribe(t *testing.T) {
	var (
		subject observable.Subject[string]
		calls   int
	)

	unsubscribe := subject.Subscribe(func(string) { calls++ })
	subject.Publish(1, "first")

	unsubscribe()
	unsubscribe()
	subject.Publish(2, "second")

	assert.Equal(t, 1, calls)
	assert.Zero(t, subject.Len())
}

func TestSubjectListenerMayUnsubscribeItself(t *testing.T) {
	var (
		subject     observable.Subject[int]
		unsubscribe func()
		calls       int
	)

	unsubscribe = subject.Subscribe(func(int) {
		calls++
		unsubscribe()
	})

	subject.Publish(1, 1)
	subject.Publish(2, 2)

	assert.Equal(t, 1, calls)
}

func TestSubjectSkipsStaleValues(t *testing.T) {
	var (
		subject observable.Subject[string]
		got     []string
	)

	subject.Subscribe(func(v string) { got = append(got, v) })

	subject.Publish(2, "newer")
	subject.Publish(1, "older")
	subject.Publish(2, "repeat")
	subject.Publish(3, "newest")

	assert.Equal(t, []string{"newer", "newest"}, got)
}

func TestSubjectLateSubscriberGetsNextValue(t *testing.T) {
	var (
		subject observable.Subject[int]
		got     []int
	)

	subject.Subscribe(func(int) {})
	subject.Publish(5, 5)

	subject.Subscribe(func(v int) { got = append(got, v) })
	subject.Publish(6, 6)

	assert.Equal(t, []int{6}, got)
}

func TestSubjectSlowListenerDoesNotReorderOthers(t *testing.T) {
	var (
		subject observable.Subject[int]
		mu      sync.Mutex
		last    int
		blocked atomic.Bool
	)

	entered := make(chan struct{})
	release := make(chan struct{})

	subject.Subscribe(func(int) {
		if blocked.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
	})
	subject.Subscribe(func(v int) {
		mu.Lock()
		defer mu.Unlock()
		last = v
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		subject.Publish(1, 1)
	}()

	<-entered
	subject.Publish(2, 2)
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, last)
}
