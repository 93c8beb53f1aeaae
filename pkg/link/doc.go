// Package link implements the line-oriented command protocol spoken
// between the brain and the muscle over a serial line.
//
// Every request is a single text line: a verb, optionally followed by
// a step count. The muscle answers each request with exactly one line,
// "OK: " followed by the original request once the motion completed
// (or was latched, for continuous verbs), or "ERR: " with a reason
// when the request could not be parsed. The strict one-reply-per-line
// pairing is the flow control: the brain never has more than one
// request outstanding.
package link
