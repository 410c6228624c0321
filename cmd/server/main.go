package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"curefront/internal/clock"
	"curefront/internal/config"
	"curefront/internal/metrics"
	"curefront/internal/sim"
)

// serverConfig is read from the environment; flags override it.
type serverConfig struct {
	Addr       string  `env:"CUREFRONT_ADDR" envDefault:":8080"`
	Balance    string  `env:"CUREFRONT_BALANCE"`
	Difficulty string  `env:"CUREFRONT_DIFFICULTY" envDefault:"default"`
	Seed       int64   `env:"CUREFRONT_SEED"`
	Speed      float64 `env:"CUREFRONT_SPEED" envDefault:"60"`
}

// frame is the JSON envelope for every message on the state stream.
type frame struct {
	Type     string             `json:"type"`
	Province *sim.ProvinceEvent `json:"province,omitempty"`
	Global   *sim.GlobalEvent   `json:"global,omitempty"`
	Outcome  *sim.OutcomeRecord `json:"outcome,omitempty"`
	Day      int                `json:"day,omitempty"`
	Phase    float64            `json:"phase,omitempty"`

	// Build/quote replies.
	Region string `json:"region,omitempty"`
	OK     bool   `json:"ok,omitempty"`
	Cost   int    `json:"cost,omitempty"`
	Error  string `json:"error,omitempty"`
}

// command is what clients send on the stream.
type command struct {
	Type   string `json:"type"`
	Region string `json:"region"`
}

// stateHub fans engine notifications out to websocket clients and feeds
// client build commands back into the engine. It implements
// sim.Listener.
type stateHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	engine   *sim.Engine
}

func newStateHub(engine *sim.Engine) *stateHub {
	return &stateHub{
		clients: make(map[*websocket.Conn]struct{}),
		engine:  engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *stateHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *stateHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// broadcast sends one frame to every connected client, dropping clients
// whose writes fail.
func (h *stateHub) broadcast(f frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		log.Printf("failed to marshal %s frame: %v", f.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("failed to write to client: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// send writes one frame to a single client.
func (h *stateHub) send(conn *websocket.Conn, f frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// ProvinceChanged implements sim.Listener.
func (h *stateHub) ProvinceChanged(ev sim.ProvinceEvent) {
	h.broadcast(frame{Type: "province", Province: &ev})
}

// GlobalChanged implements sim.Listener.
func (h *stateHub) GlobalChanged(ev sim.GlobalEvent) {
	h.broadcast(frame{Type: "global", Global: &ev})
}

// OutcomeReached implements sim.Listener.
func (h *stateHub) OutcomeReached(o sim.OutcomeRecord) {
	h.broadcast(frame{Type: "outcome", Outcome: &o})
}

// snapshot sends the complete world state to one client, so a fresh
// connection can render immediately.
func (h *stateHub) snapshot(conn *websocket.Conn) error {
	for _, ev := range h.engine.Provinces() {
		ev := ev
		if err := h.send(conn, frame{Type: "province", Province: &ev}); err != nil {
			return err
		}
	}
	g := h.engine.Global()
	if err := h.send(conn, frame{Type: "global", Global: &g}); err != nil {
		return err
	}
	if o, done := h.engine.Outcome(); done {
		return h.send(conn, frame{Type: "outcome", Outcome: &o})
	}
	return nil
}

// errorCode maps engine errors to wire codes for display logic.
func errorCode(err error) string {
	switch {
	case errors.Is(err, sim.ErrInvalidRegion):
		return "invalidRegion"
	case errors.Is(err, sim.ErrProvinceFullyInfected):
		return "provinceFullyInfected"
	case errors.Is(err, sim.ErrNotEnoughCurrency):
		return "notEnoughCurrency"
	default:
		return "internal"
	}
}

func (h *stateHub) handleCommand(conn *websocket.Conn, cmd command) error {
	switch cmd.Type {
	case "build":
		cost, err := h.engine.TryBuildOutpost(sim.RegionID(cmd.Region))
		reply := frame{Type: "buildResult", Region: cmd.Region, OK: err == nil, Cost: cost}
		if err != nil {
			reply.Error = errorCode(err)
		}
		return h.send(conn, reply)
	case "quote":
		cost, err := h.engine.CanBuildOutpost(sim.RegionID(cmd.Region))
		reply := frame{Type: "quote", Region: cmd.Region, OK: err == nil, Cost: cost}
		if err != nil {
			reply.Error = errorCode(err)
		}
		return h.send(conn, reply)
	case "state":
		return h.snapshot(conn)
	default:
		return h.send(conn, frame{Type: "error", Error: "unknownCommand"})
	}
}

func (h *stateHub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		h.add(conn)
		defer h.remove(conn)

		if err := h.snapshot(conn); err != nil {
			log.Printf("failed to send initial snapshot: %v", err)
			return
		}

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd command
			if err := json.Unmarshal(data, &cmd); err != nil {
				log.Printf("unable to decode command: %v", err)
				continue
			}
			if err := h.handleCommand(conn, cmd); err != nil {
				log.Printf("command %q failed: %v", cmd.Type, err)
				return
			}
		}
	}
}

// runTicks drives the engine from the calendar until the context ends.
func runTicks(ctx context.Context, engine *sim.Engine, cal *clock.Calendar, hub *stateHub, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	reported := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			tick := cal.Advance(interval)
			if err := engine.Advance(tick.DeltaHours, tick.Day); err != nil {
				return err
			}
			hub.broadcast(frame{Type: "clock", Day: tick.Day, Phase: cal.Phase()})
			if o, done := engine.Outcome(); done && !reported {
				reported = true
				log.Printf("run ended on day %d: %s (cure=%.3f, saved=%d, lost=%d)",
					o.Day, o.Kind, o.CureProgress, o.ProvincesSaved, o.ProvincesLost)
			}
		}
	}
}

func main() {
	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse environment: %v", err)
	}

	addr := flag.String("addr", cfg.Addr, "server listen address")
	balancePath := flag.String("balance", cfg.Balance, "optional YAML balance override file")
	difficulty := flag.String("difficulty", cfg.Difficulty, "difficulty preset: default, casual, hard")
	seed := flag.Int64("seed", cfg.Seed, "world seed (0 picks one from the clock)")
	speed := flag.Float64("speed", cfg.Speed, "in-game minutes per real second")
	flag.Parse()

	balance := config.ByDifficulty(*difficulty)
	if *balancePath != "" {
		loaded, err := config.Load(*balancePath)
		if err != nil {
			log.Fatalf("failed to load balance file: %v", err)
		}
		balance = loaded
	}

	worldSeed := *seed
	if worldSeed == 0 {
		worldSeed = time.Now().UnixNano()
	}

	engine, err := sim.New(balance, worldSeed)
	if err != nil {
		log.Fatalf("failed to start simulation: %v", err)
	}

	hub := newStateHub(engine)
	engine.AddListener(hub)
	engine.AddListener(metrics.New(prometheus.DefaultRegisterer))

	mux := http.NewServeMux()
	mux.Handle("/ws", hub.handler())
	mux.Handle("/metrics", promhttp.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{Addr: *addr, Handler: mux}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runTicks(ctx, engine, clock.New(*speed), hub, time.Second)
	})
	g.Go(func() error {
		log.Printf("serving state stream on ws://localhost%v/ws", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
