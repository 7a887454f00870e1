package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"sync"

	"github.com/elizafairlady/go-timeview/canvas"
	"github.com/elizafairlady/go-timeview/playback"
	"github.com/elizafairlady/go-timeview/render"
	"github.com/elizafairlady/go-timeview/theme"
	"github.com/elizafairlady/go-timeview/timeline"
)

// stateData is the JSON payload for state_init and state_changed.
type stateData struct {
	DataStart   float64 `json:"data_start"`
	DataEnd     float64 `json:"data_end"`
	ViewStart   float64 `json:"view_start"`
	ViewEnd     float64 `json:"view_end"`
	CurrentTime float64 `json:"current_time"`
	ZoomLevel   float64 `json:"zoom_level"`
	Playing     bool    `json:"playing"`
	Speed       float64 `json:"speed"`
}

// Server owns the store, the playback clock, and a software render
// surface for the frame endpoint.
type Server struct {
	logger *slog.Logger
	store  *timeline.Store
	player *playback.Controller
	hub    *Hub

	// frameMu serializes /frame.png renders; the pipeline draws into
	// a single shared surface.
	frameMu  sync.Mutex
	surface  *canvas.ImageCanvas
	pipeline *render.Pipeline
}

func NewServer(logger *slog.Logger, cfg Config, th *theme.Theme) (*Server, error) {
	store := timeline.NewStore(timeline.Config{})
	if err := store.Initialize(cfg.Timeline.Start, cfg.Timeline.End); err != nil {
		return nil, fmt.Errorf("initialize timeline: %w", err)
	}

	surface := canvas.NewImageCanvas(cfg.Render.Width, cfg.Render.Height, cfg.Render.DPR)
	pipeline := render.NewPipeline(surface, th, nil)
	pipeline.Resize(cfg.Render.Width, cfg.Render.Height)
	pipeline.SetDPR(cfg.Render.DPR)

	s := &Server{
		logger:   logger,
		store:    store,
		player:   playback.NewController(store),
		surface:  surface,
		pipeline: pipeline,
	}
	s.hub = NewHub(logger, s.applyCommand, func() []byte {
		return marshalEnvelope("state_init", s.snapshot())
	})

	// Every coalesced store notification becomes one broadcast frame.
	store.Subscribe(func(timeline.State) {
		s.hub.Broadcast(marshalEnvelope("state_changed", s.snapshot()))
	})
	return s, nil
}

func (s *Server) snapshot() stateData {
	st := s.store.State()
	return stateData{
		DataStart:   st.DataStart,
		DataEnd:     st.DataEnd,
		ViewStart:   st.ViewStart,
		ViewEnd:     st.ViewEnd,
		CurrentTime: st.CurrentTime,
		ZoomLevel:   st.ZoomLevel(),
		Playing:     s.player.Playing(),
		Speed:       s.player.Speed(),
	}
}

func (s *Server) applyCommand(cmd command) error {
	s.logger.Debug("command", "type", cmd.Type)
	switch cmd.Type {
	case "seek":
		return s.store.SetCurrentTime(cmd.Time)
	case "view":
		return s.store.SetView(cmd.Start, cmd.End)
	case "zoom":
		if cmd.At != 0 {
			return s.store.ZoomAt(cmd.Factor, cmd.At)
		}
		return s.store.Zoom(cmd.Factor)
	case "pan":
		return s.store.Pan(cmd.Delta)
	case "zoom_to_fit":
		s.store.ZoomToFit()
		return nil
	case "play":
		s.player.Play()
	case "pause":
		s.player.Pause()
	case "toggle":
		s.player.Toggle()
	case "speed":
		return s.player.SetSpeed(cmd.Value)
	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
	// Playback transport changes do not touch the store; broadcast
	// explicitly so clients see playing/speed flip.
	s.hub.Broadcast(marshalEnvelope("state_changed", s.snapshot()))
	return nil
}

// handleFrame renders the current state and serves it as a PNG.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.frameMu.Lock()
	s.pipeline.SetState(s.store.State())
	s.pipeline.RenderIfDirty()
	img := s.surface.Image()
	s.frameMu.Unlock()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		s.logger.Warn("frame encode failed", "error", err)
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.hub.ServeWS)
	mux.HandleFunc("/frame.png", s.handleFrame)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}
