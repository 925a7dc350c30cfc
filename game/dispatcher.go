package game

// Dispatcher adapts room transition events to the transport. Delivery
// happens on the caller's goroutine in emission order, so broadcasts and
// unicasts from the same transition are never reordered.
type Dispatcher struct {
	transport Transport
}

func NewDispatcher(transport Transport) *Dispatcher {
	return &Dispatcher{transport: transport}
}

func (d *Dispatcher) Deliver(roomCode string, events []Event) {
	for _, e := range events {
		if e.ConnID != "" {
			d.transport.Unicast(e.ConnID, string(e.Name), e.Payload)
			continue
		}
		d.transport.Broadcast(roomCode, string(e.Name), e.Payload)
	}
}
