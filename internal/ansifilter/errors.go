package ansifilter

import "ttytap/internal/bytebuf"

// SequenceError is the fatal outcome of a filtering run: either an escape
// introducer the classifier does not support, or a sequence still
// incomplete when end of input was asserted. The offending bytes are kept
// in an escaped, printable rendering. The grammar is deliberately
// non-exhaustive and fails closed rather than passing unclassified bytes
// downstream.
type SequenceError struct {
	Reason string
	Seq    string // quoted rendering of the offending bytes
}

func (e *SequenceError) Error() string {
	return e.Reason + ": " + e.Seq
}

// seqError renders data through the run's shared quoting scratch buffer.
func (r *Run) seqError(reason string, data []byte) error {
	r.quoted.Reset()
	bytebuf.Quote(&r.quoted, data)
	return &SequenceError{Reason: reason, Seq: string(r.quoted.Bytes())}
}
