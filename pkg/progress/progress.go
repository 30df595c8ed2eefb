// pkg/progress/progress.go
package progress

// Func receives push-based progress updates from long operations.
// percent is in the range 0-100 and message is a human-readable stage
// description. Implementations must not assume they are called from the
// goroutine that started the operation.
type Func func(percent int, message string)

// Notify invokes fn with a clamped percentage. A nil fn is a no-op and a
// panicking callback never aborts the operation that reports progress.
func Notify(fn Func, percent int, message string) {
	if fn == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	defer func() {
		_ = recover()
	}()
	fn(percent, message)
}

// Scale maps a nested operation's 0-100 range into the [lo, hi] band of an
// outer operation. A nil fn yields nil.
func Scale(fn Func, lo, hi int) Func {
	if fn == nil {
		return nil
	}
	return func(percent int, message string) {
		Notify(fn, lo+(hi-lo)*percent/100, message)
	}
}

// Update is one recorded progress notification.
type Update struct {
	Percent int
	Message string
}

// Recorder collects updates for inspection in tests.
type Recorder struct {
	Updates []Update
}

// Func returns a callback that appends to the recorder.
func (r *Recorder) Func() Func {
	return func(percent int, message string) {
		r.Updates = append(r.Updates, Update{Percent: percent, Message: message})
	}
}

// Last returns the most recent update, or a zero Update if none were recorded.
func (r *Recorder) Last() Update {
	if len(r.Updates) == 0 {
		return Update{}
	}
	return r.Updates[len(r.Updates)-1]
}
