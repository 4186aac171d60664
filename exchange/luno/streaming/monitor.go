package streaming

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/lukehollenback/luno/service"
	"github.com/lukehollenback/luno/structs/evictingqueue"
	"github.com/sirupsen/logrus"
)

const (
	StreamURL           = "wss://ws.luno.com/api/1/stream/"
	LogComponent        = "luno-stream"
	DefaultTradeHistory = 100
	HandshakeTimeout    = 10 * time.Second
)

var (
	ErrAlreadyStarted = errors.New("monitor has already been started")
	ErrNotStarted     = errors.New("monitor has not been started")
)

var _ service.Service = (*Monitor)(nil)

//
// Monitor keeps a live copy of a single currency pair's order book by following Luno's websocket
// market stream. It also keeps the most recent trades and hands every new trade to the registered
// trade handlers.
//
// A monitor never reconnects on its own. When the stream breaks (or reports a sequence gap) the
// monitor shuts down and Err reports why; callers decide whether to start it again.
//
type Monitor struct {
	mu *sync.Mutex

	url        string
	pair       luno.CurrencyPair
	credential luno.Credential
	dialer     *ws.Dialer
	logger     logrus.FieldLogger

	chKill    chan bool
	chStopped chan bool
	chStarted chan bool

	state   state
	started bool
	err     error
	book    *book
	trades  *evictingqueue.EvictingQueue[Trade]

	onTradeHandlers []func(Trade)
}

//
// Option configures a Monitor at build time.
//
type Option func(*Monitor)

//
// WithURL sets the base stream URL the pair is appended to (e.g. a test server).
//
func WithURL(url string) Option {
	return func(o *Monitor) {
		o.url = url
	}
}

func WithDialer(dialer *ws.Dialer) Option {
	return func(o *Monitor) {
		o.dialer = dialer
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Monitor) {
		o.logger = logger
	}
}

//
// WithTradeHistory sets how many of the most recent trades are kept.
//
func WithTradeHistory(n int) Option {
	return func(o *Monitor) {
		o.trades = evictingqueue.New[Trade](n)
	}
}

//
// NewMonitor instantiates a monitor for the provided currency pair. It does not connect until it
// is started.
//
func NewMonitor(pair luno.CurrencyPair, credential luno.Credential, opts ...Option) *Monitor {
	o := &Monitor{
		mu:              &sync.Mutex{},
		url:             StreamURL,
		pair:            pair,
		credential:      credential,
		dialer:          &ws.Dialer{HandshakeTimeout: HandshakeTimeout},
		logger:          logrus.StandardLogger(),
		state:           disconnected,
		trades:          evictingqueue.New[Trade](DefaultTradeHistory),
		onTradeHandlers: make([]func(Trade), 0),
	}

	for _, opt := range opts {
		opt(o)
	}

	o.logger = o.logger.WithFields(logrus.Fields{"component": LogComponent, "pair": pair.String()})

	return o
}

//
// RegisterTradeHandler registers a handler to be executed for every trade the stream reports.
// Handlers run on the monitor's goroutine, in registration order, and must not block.
//
func (o *Monitor) RegisterTradeHandler(handler func(Trade)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.onTradeHandlers = append(o.onTradeHandlers, handler)
}

//
// Start implements the Service interface's described method. The returned channel receives "true"
// once the initial order book has been loaded, or "false" if the monitor shut down before that.
//
func (o *Monitor) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != disconnected {
		return nil, ErrAlreadyStarted
	}

	//
	// (Re)initialize our instance variables.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)
	o.chStarted = make(chan bool, 1)
	o.state = connecting
	o.started = false
	o.err = nil
	o.book = nil

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service(o.chKill, o.chStarted, o.chStopped)

	o.logger.Info("Started.")

	return o.chStarted, nil
}

//
// Stop implements the Service interface's described method.
//
func (o *Monitor) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.chKill == nil {
		return nil, ErrNotStarted
	}

	//
	// A monitor that already shut down (on its own or through an earlier Stop) has nothing left to
	// stop, and its stopped signal may already have been consumed.
	//
	if o.state == disconnected {
		chStopped := make(chan bool, 1)
		chStopped <- true

		return chStopped, nil
	}

	o.logger.Info("Stopping...")

	//
	// Tell the goroutines that were spun off by the service to shutdown. The kill channel may
	// already hold a signal if Stop was called before.
	//
	select {
	case o.chKill <- true:
	default:
	}

	return o.chStopped, nil
}

//
// Err returns the reason the monitor last shut down on its own, or nil.
//
func (o *Monitor) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.err
}

//
// Ready returns whether the monitor currently holds a live order book.
//
func (o *Monitor) Ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state == ready
}

//
// OrderBook returns the current order book aggregated by price, and false if the initial snapshot
// has not been loaded.
//
func (o *Monitor) OrderBook() (luno.OrderBook, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.book == nil {
		return luno.OrderBook{}, false
	}

	return o.book.orderBook(), true
}

//
// Sequence returns the sequence number of the last applied message.
//
func (o *Monitor) Sequence() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.book == nil {
		return 0
	}

	return o.book.sequence
}

//
// Status returns the market status last reported by the stream (e.g. ACTIVE, POSTONLY).
//
func (o *Monitor) Status() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.book == nil {
		return ""
	}

	return o.book.status
}

//
// Trades returns the most recent trades, oldest first.
//
func (o *Monitor) Trades() []Trade {
	return o.trades.Slice()
}

//
// service connects to the Luno stream and applies its messages until it is told to stop or the
// stream fails. It is intended to be spun off into its own goroutine when the service is started.
//
func (o *Monitor) service(chKill <-chan bool, chStarted chan<- bool, chStopped chan<- bool) {
	err := o.monitor(chKill, chStarted)

	o.mu.Lock()

	if err != nil {
		o.err = err
		o.logger.WithError(err).Error("The stream failed.")
	}

	if !o.started {
		chStarted <- false
	}

	o.state = disconnected

	o.mu.Unlock()

	//
	// Send the signal that we have shut down. Closing the channel releases any other caller that
	// is waiting on the same Stop.
	//
	chStopped <- true
	close(chStopped)
}

func (o *Monitor) monitor(chKill <-chan bool, chStarted chan<- bool) error {
	endpoint := o.url + o.pair.String()

	conn, _, err := o.dialer.Dial(endpoint, nil)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %w", endpoint, err)
	}

	defer conn.Close()

	o.setState(connected)

	//
	// Authenticate. The stream answers with the order book snapshot.
	//
	creds := credentials{
		APIKeyID:     o.credential.ID(),
		APIKeySecret: o.credential.Secret(),
	}

	if err := conn.WriteJSON(creds); err != nil {
		return fmt.Errorf("could not send credentials: %w", err)
	}

	//
	// Begin monitoring and processing messages from the stream.
	//
	chMsg := make(chan []byte)
	chErr := make(chan error, 1)
	done := make(chan struct{})

	defer close(done)

	go readMessages(conn, chMsg, chErr, done)

	for {
		select {
		case <-chKill:
			o.logger.Info("Stopped.")

			return nil

		case data := <-chMsg:
			if err := o.handleMessage(data, chStarted); err != nil {
				return err
			}

		case err := <-chErr:
			return fmt.Errorf("could not read the next message: %w", err)
		}
	}
}

func readMessages(conn *ws.Conn, chMsg chan<- []byte, chErr chan<- error, done <-chan struct{}) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case chErr <- err:
			case <-done:
			}

			return
		}

		select {
		case chMsg <- data:
		case <-done:
			return
		}
	}
}

//
// handleMessage applies a single message from the stream. The first message after connecting is
// the order book snapshot; every later one is an update.
//
func (o *Monitor) handleMessage(data []byte, chStarted chan<- bool) error {
	data = bytes.TrimSpace(data)

	//
	// Keep-alives are empty (or an empty JSON string).
	//
	if len(data) == 0 || bytes.Equal(data, []byte(`""`)) {
		return nil
	}

	msg := &message{}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("could not decode message: %w", err)
	}

	o.mu.Lock()

	if o.state == connected {
		o.book = newBook(msg)
		o.state = ready
		o.started = true

		chStarted <- true

		o.logger.WithField("sequence", msg.Sequence).Info("Loaded the order book snapshot.")

		o.mu.Unlock()

		return nil
	}

	trades, err := o.book.apply(msg)
	if err != nil {
		o.mu.Unlock()

		return err
	}

	for _, trade := range trades {
		o.trades.Add(trade)
	}

	handlers := make([]func(Trade), len(o.onTradeHandlers))
	copy(handlers, o.onTradeHandlers)

	o.mu.Unlock()

	//
	// Fire off the trade handlers outside of the lock so that they may query the monitor.
	//
	for _, trade := range trades {
		for _, handler := range handlers {
			handler(trade)
		}
	}

	return nil
}

func (o *Monitor) setState(s state) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = s
}
