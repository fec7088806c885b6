package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cbegin/tack-go"
)

func main() {
	var (
		sampleRate  = flag.Int("sample-rate", 48000, "output sample rate")
		prefsPath   = flag.String("prefs", "", "YAML file to load and save settings (default: in memory)")
		tempo       = flag.Int("tempo", tack.DefaultTempo, "tempo in bpm")
		beats       = flag.String("beats", "strong,normal,normal,normal", "beat pattern: strong|normal|sub|muted, comma separated")
		subs        = flag.String("subdivisions", "muted", "subdivision pattern; the first slot is always muted")
		countIn     = flag.Int("count-in", 0, "count-in bars")
		incAmount   = flag.Int("incremental", 0, "tempo ramp step in bpm (0 = off)")
		incInterval = flag.Int("incremental-interval", 1, "units between ramp steps")
		incUnit     = flag.String("incremental-unit", "bars", "ramp unit: bars|seconds|minutes")
		incLimit    = flag.Int("incremental-limit", 0, "tempo the ramp stops at (0 = tempo range)")
		decrease    = flag.Bool("decrease", false, "ramp the tempo down instead of up")
		timer       = flag.Int("timer", 0, "stop after this many units (0 = off)")
		timerUnit   = flag.String("timer-unit", "bars", "timer unit: bars|seconds|minutes")
		mutePlay    = flag.Int("mute-play", 0, "units to play between mute windows (0 = off)")
		muteMute    = flag.Int("mute-mute", 1, "units per mute window")
		muteUnit    = flag.String("mute-unit", "bars", "mute unit: bars|seconds|minutes")
		muteRandom  = flag.Bool("mute-random", false, "randomize mute window lengths")
		latency     = flag.Duration("latency", tack.DefaultLatency, "delay between tick generation and delivery")
		gain        = flag.Int("gain", 0, "click boost in dB")
		sound       = flag.String("sound", "sine", "click sound: sine|wood|mechanical")
		renderPath  = flag.String("render", "", "write a click track WAV to this path instead of playing")
		bars        = flag.Int("bars", 8, "with -render, number of bars to render")
		quiet       = flag.Bool("quiet", false, "print ticks without audio output")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var store tack.Store = tack.NewMemoryStore()
	if *prefsPath != "" {
		fs, err := tack.OpenFileStore(*prefsPath)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := fs.Close(); err != nil {
				logger.Error("save prefs", slog.Any("error", err))
			}
		}()
		store = fs
	}

	// Flags given on the command line override stored settings.
	cfg := tack.LoadConfig(store)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tempo":
			cfg.Tempo = *tempo
		case "beats":
			cfg.Beats = tack.ParseTickTypes(*beats)
		case "subdivisions":
			cfg.Subdivisions = tack.ParseTickTypes(*subs)
		case "count-in":
			cfg.CountIn = *countIn
		case "incremental":
			cfg.Incremental.Amount = *incAmount
		case "incremental-interval":
			cfg.Incremental.Interval = *incInterval
		case "incremental-unit":
			cfg.Incremental.Unit = tack.ParseUnit(*incUnit)
		case "incremental-limit":
			cfg.Incremental.Limit = *incLimit
		case "decrease":
			cfg.Incremental.Increase = !*decrease
		case "timer":
			cfg.Timer.Duration = *timer
		case "timer-unit":
			cfg.Timer.Unit = tack.ParseUnit(*timerUnit)
		case "mute-play":
			cfg.Mute.Play = *mutePlay
		case "mute-mute":
			cfg.Mute.Mute = *muteMute
		case "mute-unit":
			cfg.Mute.Unit = tack.ParseUnit(*muteUnit)
		case "mute-random":
			cfg.Mute.Random = *muteRandom
		case "latency":
			cfg.Latency = *latency
		case "gain":
			cfg.Gain = *gain
		case "sound":
			cfg.Sound = *sound
		}
	})
	cfg = cfg.Normalize()

	if *renderPath != "" {
		if err := render(cfg, *sampleRate, *bars, *renderPath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %d bars at %d bpm to %s\n", *bars, cfg.Tempo, *renderPath)
		return
	}

	var sink tack.Sink = tack.NopSink{}
	if !*quiet {
		cs, err := tack.NewClickSink(*sampleRate)
		if err != nil {
			log.Fatal(err)
		}
		sink = cs
	}

	engine := tack.New(tack.WithStore(store), tack.WithSink(sink), tack.WithLogger(logger))
	defer engine.Destroy()
	engine.SetConfig(cfg)

	if err := run(engine); err != nil {
		log.Fatal(err)
	}
}

func render(cfg tack.Config, sampleRate, bars int, path string) error {
	samples := tack.RenderClickTrack(cfg, sampleRate, bars)
	if samples == nil {
		return fmt.Errorf("nothing to render: -bars %d, -sample-rate %d", bars, sampleRate)
	}
	if err := os.WriteFile(path, tack.EncodeWAVFloat32LE(samples, sampleRate, 2), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// run plays until interrupted or until the timer stops the engine.
func run(engine *tack.Engine) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := &console{engine: engine, lines: make(chan string, 64), stopped: make(chan struct{})}
	engine.AddListener(out)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case line := <-out.lines:
				fmt.Println(line)
			}
		}
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-out.stopped:
		}
		engine.Stop()
		cancel()
		return nil
	})
	g.Go(func() error {
		return engine.Start()
	})
	return g.Wait()
}

// console prints engine events and commits announced tempo changes.
type console struct {
	tack.BaseListener
	engine   *tack.Engine
	lines    chan string
	stopped  chan struct{}
	stopOnce sync.Once
}

func (c *console) printf(format string, args ...any) {
	select {
	case c.lines <- fmt.Sprintf(format, args...):
	default:
	}
}

func (c *console) OnStart() {
	cfg := c.engine.Config()
	c.printf("playing %d bpm, %d beats, %d subdivisions", cfg.Tempo, len(cfg.Beats), len(cfg.Subdivisions))
}

func (c *console) OnTimerStarted() {
	c.printf("timer: %s", c.engine.TotalTimeString())
}

func (c *console) OnTick(t tack.Tick) {
	if t.Muted {
		c.printf("  %d.%d  -", t.Beat, t.Subdivision)
		return
	}
	mark := map[tack.TickType]string{
		tack.TickStrong: "X",
		tack.TickNormal: "x",
		tack.TickSub:    ".",
		tack.TickMuted:  " ",
	}[t.Type]
	c.printf("  %d.%d  %s", t.Beat, t.Subdivision, mark)
}

func (c *console) OnTempoChanged(oldTempo, newTempo int) {
	c.printf("tempo %d -> %d", oldTempo, newTempo)
	c.engine.SetTempo(newTempo)
}

func (c *console) OnElapsedChanged() {
	if s := c.engine.TimerString(); s != "" {
		c.printf("%s  timer %s / %s", c.engine.ElapsedString(), s, c.engine.TotalTimeString())
		return
	}
	c.printf("%s", c.engine.ElapsedString())
}

func (c *console) OnStop() {
	c.printf("stopped after %s", c.engine.ElapsedString())
	c.stopOnce.Do(func() { close(c.stopped) })
}
