package universe

import (
	"sort"
	"sync"
	"time"
)

//Clock runs periodic tasks
//Every arms fn to be called each d until the returned cancel func is called
type Clock interface {
	Every(d time.Duration, fn func()) (cancel func())
}

//RealClock is the Clock based on time.Ticker
type RealClock struct{}

func (RealClock) Every(d time.Duration, fn func()) func() {
	t := time.NewTicker(d)
	stop := make(chan struct{})
	go func() {
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				//the stop may have raced with the tick
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(stop) }) }
}

//ManualClock is the Clock which ticks only when Fire is called
//it is used to drive the universe deterministically
type ManualClock struct {
	mu    sync.Mutex
	next  int
	tasks map[int]manualTask
}

type manualTask struct {
	interval time.Duration
	fn       func()
}

func NewManualClock() *ManualClock {
	return &ManualClock{tasks: map[int]manualTask{}}
}

func (c *ManualClock) Every(d time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.tasks[id] = manualTask{interval: d, fn: fn}
	return func() {
		c.mu.Lock()
		delete(c.tasks, id)
		c.mu.Unlock()
	}
}

//Fire calls every armed task once and returns the number of calls
//tasks are called without holding the lock, so they are free to cancel or arm tasks
func (c *ManualClock) Fire() int {
	c.mu.Lock()
	ids := make([]int, 0, len(c.tasks))
	for id := range c.tasks {
		ids = append(ids, id)
	}
	c.mu.Unlock()
	sort.Ints(ids)

	fired := 0
	for _, id := range ids {
		c.mu.Lock()
		t, ok := c.tasks[id]
		c.mu.Unlock()
		if !ok {
			continue
		}
		t.fn()
		fired++
	}
	return fired
}

//Armed returns the intervals of the armed tasks
func (c *ManualClock) Armed() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int, 0, len(c.tasks))
	for id := range c.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]time.Duration, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.tasks[id].interval)
	}
	return out
}
