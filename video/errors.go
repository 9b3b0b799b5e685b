package video

import "fmt"

// NalReassemblyError is returned when a sequence-number gap or an
// out-of-order fragment breaks reassembly of the current Access Unit. The
// partial Access Unit is dropped; reassembly resumes fresh on the next
// packet.
type NalReassemblyError struct {
	Reason string
}

func (e *NalReassemblyError) Error() string {
	return fmt.Sprintf("video: access unit reassembly failed: %s", e.Reason)
}
