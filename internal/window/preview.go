package window

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/arcaluminis-render/internal/render"
)

// Preview is a Window served over HTTP. Browsers connect to /ws for frames and to
// /control to close the window; / serves a minimal canvas viewer.
type Preview struct {
	mu       sync.RWMutex
	log      zerolog.Logger
	width    int
	height   int
	throttle time.Duration

	clients   map[*websocket.Conn]bool
	frameID   uint64
	pending   bool
	lastSent  time.Time
	startTime time.Time

	closing   atomic.Bool
	closeOnce sync.Once
	ln        net.Listener
	srv       *http.Server
}

type Option func(*Preview)

func WithLogger(l zerolog.Logger) Option { return func(p *Preview) { p.log = l } }

// WithThrottle drops frames that arrive sooner than d after the last one pushed.
func WithThrottle(d time.Duration) Option { return func(p *Preview) { p.throttle = d } }

// NewPreview starts serving on addr (":0" picks a free port). The window reports w x h as
// its size.
func NewPreview(addr string, w, h int, opts ...Option) (*Preview, error) {
	p := &Preview{
		log:       zerolog.Nop(),
		width:     w,
		height:    h,
		clients:   map[*websocket.Conn]bool{},
		startTime: time.Now(),
	}
	for _, o := range opts {
		o(p)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", p.handleIndex)
	mux.HandleFunc("/ws", p.handleFramesWS)
	mux.HandleFunc("/control", p.handleControlWS)
	mux.HandleFunc("/health", p.handleHealth)
	p.ln = ln
	p.srv = &http.Server{Handler: mux}

	go func() {
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.log.Error().Err(err).Msg("preview server")
		}
	}()
	p.log.Info().Str("addr", ln.Addr().String()).Msg("preview window listening")
	return p, nil
}

// Addr is the address actually bound.
func (p *Preview) Addr() string { return p.ln.Addr().String() }

func (p *Preview) Size() (int, int) { return p.width, p.height }

func (p *Preview) IsClosing() bool { return p.closing.Load() }

// RequestClose marks the window as closing, as if a viewer had closed it.
func (p *Preview) RequestClose() { p.closing.Store(true) }

// Clear starts a new frame; viewers keep showing the last one until the next swap.
func (p *Preview) Clear() {
	p.mu.Lock()
	p.pending = true
	p.mu.Unlock()
}

func (p *Preview) SwapBuffers(a render.Artifact) error {
	if a.Image == nil {
		return errors.New("window: swap without an image")
	}
	p.mu.Lock()
	p.frameID++
	p.pending = false
	now := time.Now()
	if p.throttle > 0 && now.Sub(p.lastSent) < p.throttle {
		p.mu.Unlock()
		return nil
	}
	p.lastSent = now
	p.mu.Unlock()

	b := a.Image.Bounds()
	rgb := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := a.Image.Pix[(y-b.Min.Y)*a.Image.Stride:]
		for x := 0; x < b.Dx(); x++ {
			rgb = append(rgb, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	p.broadcast(frameMsg{
		Type:     "frame",
		T:        now.UnixNano(),
		FrameID:  p.frameID,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Previous: a.Previous,
		RGB:      rgb,
	})
	return nil
}

// Close stops the server and drops every client. It is safe to call more than once.
func (p *Preview) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closing.Store(true)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err = p.srv.Shutdown(ctx)

		p.mu.Lock()
		for c := range p.clients {
			c.Close()
			delete(p.clients, c)
		}
		p.mu.Unlock()
		p.log.Debug().Uint64("frames", p.frameID).Msg("preview window closed")
	})
	return err
}

type helloMsg struct {
	Type   string `json:"type"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
}

type frameMsg struct {
	Type     string `json:"type"`
	T        int64  `json:"t"`
	FrameID  uint64 `json:"frame_id"`
	Width    int    `json:"w"`
	Height   int    `json:"h"`
	Previous bool   `json:"previous,omitempty"`
	RGB      []byte `json:"rgb"`
}

type controlMsg struct {
	Cmd string `json:"cmd"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (p *Preview) handleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	// Writers hold mu exclusively; a conn supports one writer at a time.
	p.mu.Lock()
	p.clients[conn] = true
	p.send(conn, helloMsg{Type: "hello", Width: p.width, Height: p.height})
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			delete(p.clients, conn)
			p.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (p *Preview) handleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg controlMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Cmd {
		case "close":
			p.log.Info().Msg("preview closed by viewer")
			p.RequestClose()
		}
		p.send(conn, p.status())
	}
}

func (p *Preview) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p.status())
}

func (p *Preview) status() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return map[string]any{
		"frame_id": p.frameID,
		"uptime_s": time.Since(p.startTime).Seconds(),
		"clients":  len(p.clients),
		"closing":  p.closing.Load(),
		"w":        p.width,
		"h":        p.height,
	}
}

func (p *Preview) send(conn *websocket.Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

func (p *Preview) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for c := range p.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			p.log.Debug().Err(err).Msg("write frame")
		}
	}
}
