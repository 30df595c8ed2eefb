// pkg/progress/progress_test.go
package progress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifyClampsPercent(t *testing.T) {
	var rec Recorder
	fn := rec.Func()

	Notify(fn, -10, "below")
	Notify(fn, 150, "above")
	Notify(fn, 42, "within")

	require.Len(t, rec.Updates, 3)
	require.Equal(t, 0, rec.Updates[0].Percent)
	require.Equal(t, 100, rec.Updates[1].Percent)
	require.Equal(t, 42, rec.Updates[2].Percent)
}

func TestNotifyNilFunc(t *testing.T) {
	require.NotPanics(t, func() {
		Notify(nil, 50, "ignored")
	})
}

func TestNotifyRecoversPanic(t *testing.T) {
	calls := 0
	fn := func(percent int, message string) {
		calls++
		panic("callback blew up")
	}

	require.NotPanics(t, func() {
		Notify(fn, 10, "first")
		Notify(fn, 20, "second")
	})
	require.Equal(t, 2, calls)
}

func TestScale(t *testing.T) {
	var rec Recorder
	fn := Scale(rec.Func(), 70, 95)

	fn(0, "start")
	fn(50, "halfway")
	fn(100, "done")

	require.Equal(t, 70, rec.Updates[0].Percent)
	require.Equal(t, 82, rec.Updates[1].Percent)
	require.Equal(t, 95, rec.Updates[2].Percent)

	require.Nil(t, Scale(nil, 70, 95))
}

func TestRecorderLast(t *testing.T) {
	var rec Recorder
	require.Equal(t, Update{}, rec.Last())

	fn := rec.Func()
	fn(10, "start")
	fn(100, "done")

	require.Equal(t, Update{Percent: 100, Message: "done"}, rec.Last())
}
