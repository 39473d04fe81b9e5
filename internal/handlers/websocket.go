package handlers

import (
	"chatapp-client/internal/models"
	"chatapp-client/internal/viewmodel"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/valyala/fastjson"
)

const (
	FrameOpen     = "open"
	FrameIntent   = "intent"
	FrameClose    = "close"
	FrameState    = "state"
	FrameNavigate = "navigate"
	FrameError    = "error"
)

// writeBuffer bounds frames queued for a slow client.
const writeBuffer = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Frame is what the bridge sends to the UI.
type Frame struct {
	Type    string `json:"type"`
	Screen  string `json:"screen,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type intent func(args *fastjson.Value) error

type screen struct {
	close   func()
	intents map[string]intent
}

// session is one connected UI. It owns the screens the UI opened.
type session struct {
	server *Server
	user   models.User
	conn   *websocket.Conn
	ctx    context.Context

	writeChannel chan []byte

	mutex   sync.Mutex
	screens map[string]*screen
}

func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	s.sugar.Debugf("Connecting user ID [%d] to WebSocket", user.ID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already answered
		s.sugar.Error(err)
		return
	}
	defer conn.Close()

	// the request context ends with the handler, screens must end with the socket
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	ss := &session{
		server:       s,
		user:         user,
		conn:         conn,
		ctx:          ctx,
		writeChannel: make(chan []byte, writeBuffer),
		screens:      make(map[string]*screen),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go ss.write(&wg, cancel)

	ss.read()

	cancel()
	ss.closeAll()
	wg.Wait()

	s.sugar.Debugf("User ID [%d] disconnected from WebSocket", user.ID)
}

func (ss *session) write(wg *sync.WaitGroup, cancel context.CancelFunc) {
	defer wg.Done()
	// a dead writer must stop the reader too
	defer cancel()

	for {
		select {
		case bytes := <-ss.writeChannel:
			err := ss.conn.WriteMessage(websocket.TextMessage, bytes)
			if err != nil {
				ss.server.sugar.Debug(err)
				ss.conn.Close()
				return
			}
		case <-ss.ctx.Done():
			return
		}
	}
}

func (ss *session) read() {
	for {
		_, bytes, err := ss.conn.ReadMessage()
		if err != nil {
			ss.server.sugar.Debug(err)
			return
		}

		err = ss.handle(bytes)
		if err != nil {
			ss.server.sugar.Debug(err)
			ss.send(Frame{Type: FrameError, Message: err.Error()})
		}
	}
}

func (ss *session) send(frame Frame) {
	bytes, err := json.Marshal(frame)
	if err != nil {
		ss.server.sugar.Error(err)
		return
	}

	select {
	case ss.writeChannel <- bytes:
	case <-ss.ctx.Done():
	}
}

// handle runs one client frame. Values parsed by fastjson only live until
// the parser is returned, so intents copy what they need before returning.
func (ss *session) handle(bytes []byte) error {
	p := ss.server.frames.Get()
	defer ss.server.frames.Put(p)

	frame, err := p.ParseBytes(bytes)
	if err != nil {
		return err
	}

	name := string(frame.GetStringBytes("screen"))
	if name == "" {
		return errors.New("frame has no screen")
	}
	args := frame.Get("args")

	switch frameType := string(frame.GetStringBytes("type")); frameType {
	case FrameOpen:
		return ss.open(name, args)
	case FrameClose:
		ss.closeScreen(name)
		return nil
	case FrameIntent:
		ss.mutex.Lock()
		sc, ok := ss.screens[name]
		ss.mutex.Unlock()
		if !ok {
			return fmt.Errorf("screen %s isn't open", name)
		}

		intentName := string(frame.GetStringBytes("name"))
		run, ok := sc.intents[intentName]
		if !ok {
			return fmt.Errorf("%w %s on %s", errUnknownIntent, intentName, name)
		}
		return run(args)
	default:
		return fmt.Errorf("unknown frame type %q", frameType)
	}
}

// attach makes h the screen called name, replacing the screen open under that
// name, and forwards its snapshots and navigation to the UI until it closes.
func attach[S any](ss *session, name string, h *viewmodel.Holder[S], close func(), intents map[string]intent) {
	ss.mutex.Lock()
	previous := ss.screens[name]
	ss.screens[name] = &screen{close: close, intents: intents}
	ss.mutex.Unlock()

	if previous != nil {
		previous.close()
	}

	go func() {
		for state := range h.Observe(ss.ctx) {
			ss.send(Frame{Type: FrameState, Screen: name, Data: state})
		}
	}()

	go func() {
		for {
			select {
			case destination := <-h.Navigation():
				ss.send(Frame{Type: FrameNavigate, Screen: name, Data: destination})
			case <-h.Done():
				return
			}
		}
	}()
}

func (ss *session) closeScreen(name string) {
	ss.mutex.Lock()
	sc, ok := ss.screens[name]
	delete(ss.screens, name)
	ss.mutex.Unlock()

	if ok {
		sc.close()
	}
}

func (ss *session) closeAll() {
	ss.mutex.Lock()
	screens := ss.screens
	ss.screens = make(map[string]*screen)
	ss.mutex.Unlock()

	for _, sc := range screens {
		sc.close()
	}
}

// id reads an ID argument sent either as a string or as a number.
// A missing ID reads as zero, which the use cases reject as blank.
func id(args *fastjson.Value, key string) (int64, error) {
	v := args.Get(key)
	if v == nil {
		return 0, nil
	}

	switch v.Type() {
	case fastjson.TypeString:
		return strconv.ParseInt(string(v.GetStringBytes()), 10, 64)
	case fastjson.TypeNumber:
		return v.Int64()
	default:
		return 0, fmt.Errorf("%s isn't an ID", key)
	}
}

// number reads a required integer argument.
func number(args *fastjson.Value, key string) (int, error) {
	v := args.Get(key)
	if v == nil {
		return 0, fmt.Errorf("%s is missing", key)
	}
	if v.Type() != fastjson.TypeNumber {
		return 0, fmt.Errorf("%s isn't a number", key)
	}
	return v.Int()
}

func text(args *fastjson.Value, key string) string {
	return string(args.GetStringBytes(key))
}
