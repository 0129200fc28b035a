// Package tuner runs single-string tuning sessions.
//
// A [Session] pulls one PCM frame at a time from a [Source], estimates the
// dominant pitch, compares it against the session target and emits an
// [Event] per frame. The session stops on the first in-tune frame, when the
// source closes, or when its context is canceled:
//
//	Idle -> Listening -> (Evaluating -> Listening)* -> Stopped
//
// A session is single use. Sources are owned by the caller, which opens them
// before Run and closes them afterwards on every exit path.
package tuner
