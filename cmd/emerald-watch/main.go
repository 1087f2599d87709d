// Package main is a diagnostics client and load generator for the engine's
// live stats hub. It attaches any number of websocket clients, pings the
// hub at an interval and reports what came back.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// Config for a watch run.
type Config struct {
	ServerURL    string
	NumClients   int
	PingInterval time.Duration
	Duration     time.Duration
	ResultsFile  string
}

// Stats tracks what every client saw.
type Stats struct {
	PingsSent       int64
	FrameMessages   int64
	ProfileMessages int64
	UnknownMessages int64
	Errors          int64
	LastFrame       int64
	LastFPS         atomic.Value // float64
	WriteLatencies  []time.Duration
	mu              sync.Mutex
}

func main() {
	var cfg Config
	cmd := &cobra.Command{
		Use:          "emerald-watch",
		Short:        "Watch and load-test the Emerald diagnostics hub",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Duration)
			defer cancel()
			stats := run(ctx, cfg)
			return report(stats, cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.ServerURL, "url", "ws://localhost:8081/ws", "hub websocket URL")
	cmd.Flags().IntVar(&cfg.NumClients, "clients", 1, "number of concurrent clients")
	cmd.Flags().DurationVar(&cfg.PingInterval, "interval", time.Second, "ping interval per client")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", 30*time.Second, "how long to watch")
	cmd.Flags().StringVar(&cfg.ResultsFile, "out", "", "write results as JSON to this file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) *Stats {
	stats := &Stats{WriteLatencies: make([]time.Duration, 0, 1024)}
	stats.LastFPS.Store(0.0)

	var wg sync.WaitGroup
	for i := 0; i < cfg.NumClients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runClient(ctx, id, cfg, stats)
		}(i)
		// Stagger starts so the hub is not hit by every upgrade at once.
		time.Sleep(10 * time.Millisecond)
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-done:
			return stats
		case <-ticker.C:
			fmt.Printf("frame=%d fps=%.1f frames=%d profiles=%d errors=%d\n",
				atomic.LoadInt64(&stats.LastFrame), stats.LastFPS.Load().(float64),
				atomic.LoadInt64(&stats.FrameMessages), atomic.LoadInt64(&stats.ProfileMessages),
				atomic.LoadInt64(&stats.Errors))
		}
	}
}

func runClient(ctx context.Context, id int, cfg Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.ServerURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client %d: connect: %v\n", id, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			record(stats, msg)
		}
	}()

	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()
	ping := []byte(`{"type":"ping"}`)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}
			atomic.AddInt64(&stats.PingsSent, 1)
			stats.mu.Lock()
			stats.WriteLatencies = append(stats.WriteLatencies, time.Since(start))
			stats.mu.Unlock()
		}
	}
}

// record classifies one hub message.
func record(stats *Stats, raw []byte) {
	if !gjson.ValidBytes(raw) {
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	msg := gjson.ParseBytes(raw)
	switch msg.Get("type").String() {
	case "FRAME_STATS":
		atomic.AddInt64(&stats.FrameMessages, 1)
		atomic.StoreInt64(&stats.LastFrame, msg.Get("data.frame").Int())
		stats.LastFPS.Store(msg.Get("data.fps").Float())
	case "PROFILE_SNAPSHOT":
		atomic.AddInt64(&stats.ProfileMessages, 1)
	default:
		atomic.AddInt64(&stats.UnknownMessages, 1)
	}
}

func report(stats *Stats, cfg Config) error {
	fmt.Println("=========================================")
	fmt.Printf("Pings sent:        %d\n", atomic.LoadInt64(&stats.PingsSent))
	fmt.Printf("Frame messages:    %d\n", atomic.LoadInt64(&stats.FrameMessages))
	fmt.Printf("Profile messages:  %d\n", atomic.LoadInt64(&stats.ProfileMessages))
	fmt.Printf("Unknown messages:  %d\n", atomic.LoadInt64(&stats.UnknownMessages))
	fmt.Printf("Errors:            %d\n", atomic.LoadInt64(&stats.Errors))
	fmt.Printf("Last frame:        %d (%.1f fps)\n", atomic.LoadInt64(&stats.LastFrame), stats.LastFPS.Load().(float64))

	stats.mu.Lock()
	lat := append([]time.Duration(nil), stats.WriteLatencies...)
	stats.mu.Unlock()
	if len(lat) > 0 {
		var total time.Duration
		lo, hi := lat[0], lat[0]
		for _, l := range lat {
			total += l
			lo = min(lo, l)
			hi = max(hi, l)
		}
		fmt.Printf("Write latency:     min=%v avg=%v max=%v\n", lo, total/time.Duration(len(lat)), hi)
	}
	fmt.Println("=========================================")

	if cfg.ResultsFile == "" {
		return nil
	}
	results := map[string]interface{}{
		"pings_sent":       atomic.LoadInt64(&stats.PingsSent),
		"frame_messages":   atomic.LoadInt64(&stats.FrameMessages),
		"profile_messages": atomic.LoadInt64(&stats.ProfileMessages),
		"errors":           atomic.LoadInt64(&stats.Errors),
		"last_frame":       atomic.LoadInt64(&stats.LastFrame),
		"config": map[string]interface{}{
			"clients":  cfg.NumClients,
			"interval": cfg.PingInterval.String(),
			"duration": cfg.Duration.String(),
		},
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.ResultsFile, data, 0o644)
}
