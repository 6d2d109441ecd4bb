package preview

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/bundleless/internal/logfields"
	"git.home.luguber.info/inful/bundleless/internal/metrics"
)

const (
	heartbeatInterval = 30 * time.Second
	clientBuffer      = 8
)

// LiveReloadHub fans generation run identifiers out to browsers over SSE.
// The identifier of the last completed run is replayed to every new stream so a
// page opened mid-session knows which output it was loaded from.
type LiveReloadHub struct {
	mu      sync.RWMutex
	nextID  int
	streams map[int]*stream
	closed  bool
	lastRun string

	logger   *slog.Logger
	recorder metrics.LiveReloadRecorder
}

type stream struct {
	id    int
	runs  chan string
	close chan struct{}
}

// NewLiveReloadHub returns a hub with no streams. A nil recorder disables metrics.
func NewLiveReloadHub(logger *slog.Logger, recorder metrics.LiveReloadRecorder) *LiveReloadHub {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &LiveReloadHub{streams: map[int]*stream{}, logger: logger, recorder: recorder}
}

// ServeHTTP holds an SSE stream open until the client leaves or the hub shuts down.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	s, replay, ok := h.open()
	if !ok {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.drop(s.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	send := func(frame string) bool {
		if _, err := bw.WriteString(frame); err != nil {
			h.logger.Debug("LiveReload write failed", logfields.Error(err))
			return false
		}
		if err := bw.Flush(); err != nil {
			h.logger.Debug("LiveReload flush failed", logfields.Error(err))
			return false
		}
		flusher.Flush()
		return true
	}

	hello := ": connected\n\n"
	if replay != "" {
		hello += runFrame(replay)
	}
	if !send(hello) {
		return
	}

	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.close:
			return
		case <-hb.C:
			if !send(": ping\n\n") {
				return
			}
		case run := <-s.runs:
			if !send(runFrame(run)) {
				return
			}
		}
	}
}

func runFrame(runID string) string {
	return fmt.Sprintf("data: {\"run\":%q}\n\n", runID)
}

// open registers a stream and returns the run to replay to it.
func (h *LiveReloadHub) open() (*stream, string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, "", false
	}
	s := &stream{id: h.nextID, runs: make(chan string, clientBuffer), close: make(chan struct{})}
	h.nextID++
	h.streams[s.id] = s
	h.recorder.IncLiveReloadConnection()
	h.recorder.SetLiveReloadClients(len(h.streams))
	return s, h.lastRun, true
}

func (h *LiveReloadHub) drop(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.streams[id]
	if !ok {
		return
	}
	delete(h.streams, id)
	close(s.close)
	h.recorder.SetLiveReloadClients(len(h.streams))
}

// Clients returns the number of open streams.
func (h *LiveReloadHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams)
}

// Broadcast announces a completed run. Empty and repeated run ids are ignored;
// streams that cannot keep up are dropped.
func (h *LiveReloadHub) Broadcast(runID string) {
	h.mu.Lock()
	if h.closed || runID == "" || runID == h.lastRun {
		h.mu.Unlock()
		return
	}
	h.lastRun = runID
	targets := make([]*stream, 0, len(h.streams))
	for _, s := range h.streams {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	dropped := 0
	for _, s := range targets {
		select {
		case s.runs <- runID:
		default:
			dropped++
			h.drop(s.id)
		}
	}
	h.recorder.IncLiveReloadBroadcast()
	h.recorder.AddLiveReloadDropped(dropped)
	h.logger.Debug("LiveReload broadcast", logfields.RunID(runID),
		logfields.Count(len(targets)), slog.Int("dropped", dropped))
}

// Shutdown ends every stream and rejects new ones.
func (h *LiveReloadHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, s := range h.streams {
		delete(h.streams, id)
		close(s.close)
	}
	h.recorder.SetLiveReloadClients(0)
}

// LiveReloadScript reloads the page when a run identifier differs from the first one seen.
const LiveReloadScript = `(() => {
  if (window.__BUNDLELESS_LR__) return;
  window.__BUNDLELESS_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.run; return; }
        if (p.run && p.run !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();`
