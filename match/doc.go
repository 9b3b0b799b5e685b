// Package match fuses samples from a leader stream (typically the lowest
// rate, e.g. scene video) with one or more follower streams by nearest
// wall-clock timestamp. Each stream feeds a bounded,
// timestamp-ordered Queue; Matcher.Next drains them with peek-only
// semantics until every follower either has a qualifying sample or its
// wait window elapses.
package match
