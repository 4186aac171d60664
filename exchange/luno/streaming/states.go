package streaming

type state int

const (
	disconnected state = iota // The monitor has not yet attempted to establish a connection to the Luno stream (or has shut down).
	connecting                // The monitor is attempting to establish a connection to the Luno stream.
	connected                 // The monitor has connected and sent its credentials, and is waiting for the order book snapshot.
	ready                     // The monitor has applied the order book snapshot and is applying updates as they arrive.
)

func (o state) String() string {
	return [...]string{"disconnected", "connecting", "connected", "ready"}[o]
}
