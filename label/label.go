// Package label splits a domain's bytes into dot-separated labels,
// recorded TLD-first (right to left), as offset+length views into the
// caller's original buffer. No copying; the caller's buffer must
// outlive the returned view.
package label

import "fmt"

// maxLabel is the hard ceiling on a single label's byte length. A label
// longer than this is rejected outright.
const maxLabel = 255

// warnLabel is the soft ceiling: labels longer than this but within
// maxLabel are accepted with a warning (returned via Split's ok/warn
// signature, not logged directly — callers own their diagnostics sink).
const warnLabel = 63

// Label is a single offset+length view into the domain buffer passed
// to Split. Offset and Length index into that same buffer; Label does
// not own bytes.
type Label struct {
	Offset int
	Length uint8
}

// Bytes returns the label's bytes as a sub-slice of domain, the same
// buffer that was passed to Split.
func (l Label) Bytes(domain []byte) []byte {
	return domain[l.Offset : l.Offset+int(l.Length)]
}

// View is a reusable scratch buffer for repeated Split calls, avoiding
// a fresh allocation per domain (mirrors the teacher's per-worker
// reused request struct in logparser's streaming path).
type View struct {
	labels []Label
}

// Reset truncates the view's label slice to zero length while keeping
// the underlying array, ready for reuse on the next Split call.
func (v *View) Reset() {
	v.labels = v.labels[:0]
}

// Labels returns the labels produced by the most recent Split call,
// TLD-first (index 0 is the rightmost label).
func (v *View) Labels() []Label {
	return v.labels
}

// Err describes why Split rejected a domain.
type Err struct {
	Reason string
}

func (e *Err) Error() string { return e.Reason }

// Split parses domain into TLD-first labels, appending them to v's
// reused scratch slice. Returns warn=true if any label fell in
// (63, 255] bytes (accepted, but the caller should log a warning).
// A zero-length domain returns ok=false with no error (spec: "Zero-
// length input returns false without mutating output"). A label
// exceeding 255 bytes returns ok=false and a non-nil err.
func Split(domain []byte, v *View) (ok bool, warn bool, err error) {
	if len(domain) == 0 {
		return false, false, nil
	}
	v.Reset()

	end := len(domain)
	for end > 0 {
		start := end
		for start > 0 && domain[start-1] != '.' {
			start--
		}
		length := end - start
		if length == 0 {
			// consecutive dots / leading-or-trailing dot: skip the
			// empty label rather than mutate output then fail.
			if start == 0 {
				break
			}
			end = start - 1
			continue
		}
		if length > maxLabel {
			return false, false, &Err{Reason: fmt.Sprintf("label of %d bytes exceeds %d-byte ceiling", length, maxLabel)}
		}
		if length > warnLabel {
			warn = true
		}
		v.labels = append(v.labels, Label{Offset: start, Length: uint8(length)})

		if start == 0 {
			break
		}
		end = start - 1 // skip the '.'
	}

	if len(v.labels) == 0 {
		return false, warn, nil
	}
	return true, warn, nil
}
