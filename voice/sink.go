package voice

// Sink receives the frequencies a voice resolves to. Calls are fire-and-forget
// property updates: implementations apply them at their next opportunity and
// must not block.
type Sink interface {
	SetFrequency(voice int, hz float64)
	SetSubFrequency(voice int, hz float64)
}

// Sinks fans every update out to each sink, in order.
type Sinks []Sink

func (s Sinks) SetFrequency(voice int, hz float64) {
	for _, sink := range s {
		sink.SetFrequency(voice, hz)
	}
}

func (s Sinks) SetSubFrequency(voice int, hz float64) {
	for _, sink := range s {
		sink.SetSubFrequency(voice, hz)
	}
}

type discard struct{}

func (discard) SetFrequency(int, float64)    {}
func (discard) SetSubFrequency(int, float64) {}

// Discard is a Sink that drops every update.
var Discard Sink = discard{}
