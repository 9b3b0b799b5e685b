package match

import "fmt"

// Overflow is reported by Queue.Push when enqueuing forced the queue to
// evict its oldest sample to stay within depth.
type Overflow struct {
	Stream string
	Depth  int
}

func (e *Overflow) Error() string {
	return fmt.Sprintf("match: queue %q exceeded depth %d, oldest sample dropped", e.Stream, e.Depth)
}
