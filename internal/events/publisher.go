package events

// Publisher delivers an event payload to a topic. Delivery is fire-and-forget:
// implementations must never block the calling workflow operation or surface
// an error into it.
type Publisher interface {
	Publish(topic string, payload interface{})
}

// NoopPublisher discards everything. Used in tests and when no sink is
// configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, interface{}) {}

// Fanout dispatches each event to every configured sink.
type Fanout struct {
	sinks []Publisher
}

func NewFanout(sinks ...Publisher) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Publish(topic string, payload interface{}) {
	for _, sink := range f.sinks {
		sink.Publish(topic, payload)
	}
}
