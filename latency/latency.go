// Package latency keeps stats on how long the event loop takes to turn a
// gesture into pushed frequencies.
package latency

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Window is how many samples the stats cover.
const Window = 64

type (
	CalcMsg struct {
		Latest time.Duration
		Avg    time.Duration
		Min    time.Duration
		Max    time.Duration
	}
)

// Record appends d to times, keeping the last Window samples.
func Record(times []time.Duration, d time.Duration) []time.Duration {
	times = append(times, d)
	if len(times) > Window {
		times = times[len(times)-Window:]
	}
	return times
}

// CalcStats reports latest along with the stats of the recorded window.
func CalcStats(latest time.Duration, prev []time.Duration) tea.Cmd {
	msg := Summarize(prev)
	msg.Latest = latest
	return func() tea.Msg {
		return msg
	}
}

// Summarize returns the min, max and mean of times. The mean is rounded to
// the microsecond. Latest is left unset.
func Summarize(times []time.Duration) CalcMsg {
	var msg CalcMsg
	if len(times) == 0 {
		return msg
	}
	var sum time.Duration
	msg.Min, msg.Max = times[0], times[0]
	for _, t := range times {
		sum += t
		if t < msg.Min {
			msg.Min = t
		}
		if t > msg.Max {
			msg.Max = t
		}
	}
	msg.Avg = (sum / time.Duration(len(times))).Round(time.Microsecond)
	return msg
}
