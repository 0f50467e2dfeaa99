package index

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Counter counts commands and remembers the order in which each command was
// first counted. Iteration always follows that order.
type Counter struct {
	counts *orderedmap.OrderedMap[string, int]
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: orderedmap.New[string, int]()}
}

// Inc adds one to cmd's count.
func (c *Counter) Inc(cmd string) {
	c.Add(cmd, 1)
}

// Add adds n to cmd's count.
func (c *Counter) Add(cmd string, n int) {
	if pair := c.counts.GetPair(cmd); pair != nil {
		pair.Value += n
		return
	}
	c.counts.Set(cmd, n)
}

// Get returns cmd's count, or 0 if it was never counted.
func (c *Counter) Get(cmd string) int {
	return c.counts.Value(cmd)
}

// Len returns the number of distinct commands.
func (c *Counter) Len() int {
	return c.counts.Len()
}

// Total returns the sum of all counts.
func (c *Counter) Total() int {
	total := 0
	for pair := c.counts.Oldest(); pair != nil; pair = pair.Next() {
		total += pair.Value
	}
	return total
}

// Each calls fn for every command in first-counted order until fn returns false.
func (c *Counter) Each(fn func(cmd string, count int) bool) {
	for pair := c.counts.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Merge returns a new Counter holding c's counts followed by other's.
// Commands already present in c keep their position; new ones are appended
// in other's order.
func (c *Counter) Merge(other *Counter) *Counter {
	merged := NewCounter()
	c.Each(func(cmd string, count int) bool {
		merged.Add(cmd, count)
		return true
	})
	other.Each(func(cmd string, count int) bool {
		merged.Add(cmd, count)
		return true
	})
	return merged
}
