package pointfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/logger"
)

// Message is the JSON frame a point server sends.
type Message struct {
	Points []float32 `json:"points"`
}

// ErrMalformedCloud is logged for clouds whose length is not a multiple of 3.
var ErrMalformedCloud = errors.New("point cloud length is not a multiple of 3")

const closeTimeout = time.Second

// Feed receives clouds from a websocket server on a background goroutine
// and hands the most recent complete cloud to the render thread.
type Feed struct {
	url  string
	conn *websocket.Conn
	log  *zap.Logger

	mu      sync.Mutex
	latest  []float32
	fresh   bool
	err     error
	frames  int
	dropped int

	done      chan struct{}
	closing   chan struct{}
	closeOnce sync.Once
}

// Dial connects to url and starts reading.
func Dial(ctx context.Context, url string) (*Feed, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	f := &Feed{
		url:     url,
		conn:    conn,
		log:     logger.Named("pointfeed"),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}
	f.log.Info("connected", zap.String("url", url))

	go f.read()
	return f, nil
}

func (f *Feed) read() {
	defer close(f.done)

	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			f.finish(err)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			f.drop("malformed frame", err)
			continue
		}
		if len(msg.Points)%3 != 0 {
			f.drop("malformed cloud", ErrMalformedCloud)
			continue
		}

		f.mu.Lock()
		f.latest = msg.Points
		f.fresh = true
		f.frames++
		f.mu.Unlock()
	}
}

func (f *Feed) drop(reason string, err error) {
	f.mu.Lock()
	f.dropped++
	f.mu.Unlock()
	f.log.Warn("dropping "+reason, zap.Error(err))
}

func (f *Feed) finish(err error) {
	select {
	case <-f.closing:
		// Close was called; the read error is expected.
		return
	default:
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		f.log.Info("server closed the feed", zap.String("url", f.url))
	} else {
		f.log.Warn("feed stopped", zap.String("url", f.url), zap.Error(err))
	}

	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// Next returns the latest cloud if one arrived since the previous call.
func (f *Feed) Next(time.Duration) ([]float32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.fresh {
		return nil, false
	}
	f.fresh = false
	return f.latest, true
}

// Stats returns the number of accepted and dropped frames.
func (f *Feed) Stats() (frames, dropped int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames, f.dropped
}

// Done is closed when the reader goroutine exits.
func (f *Feed) Done() <-chan struct{} { return f.done }

// Err returns the error that stopped the reader, if any. It is nil after
// a local Close.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close sends a close frame, closes the connection and waits for the
// reader to exit. Safe to call more than once.
func (f *Feed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.closing)

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = f.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
		err = f.conn.Close()
		<-f.done

		f.log.Info("disconnected", zap.String("url", f.url))
	})
	return err
}
