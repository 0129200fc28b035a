// Command tuner listens to an audio input and reports whether the played
// string matches a standard-tuning target, stopping once it is in tune.
//
// Usage:
//
//	tuner [flags]
//
// Examples:
//
//	tuner -target A
//	tuner -device usb -target E2 -tolerance 2
//	tuner -wav take1.wav -target G
//	tuner -demo -target D
//	tuner -list-devices
//	tuner -list-targets
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-tuner/internal/config"
	"github.com/cwbudde/algo-tuner/internal/observe"
	"github.com/cwbudde/algo-tuner/source/device"
	"github.com/cwbudde/algo-tuner/source/tone"
	"github.com/cwbudde/algo-tuner/source/wavfile"
	"github.com/cwbudde/algo-tuner/tuner"
	"github.com/cwbudde/algo-tuner/tuning"
)

type options struct {
	configPath  string
	target      string
	device      string
	tolerance   float64
	logLevel    string
	metricsAddr string
	wavPath     string
	demo        bool
	listDevices bool
	listTargets bool
}

// source is a tuner.Source owned by main.
type source interface {
	tuner.Source
	io.Closer
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options

	flag.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	flag.StringVar(&opts.target, "target", "", "target string: E2, A, D, G, B or E4")
	flag.StringVar(&opts.device, "device", "", "input device index or name substring (default input if empty)")
	flag.Float64Var(&opts.tolerance, "tolerance", 0, "in-tune band half-width in Hz")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flag.StringVar(&opts.wavPath, "wav", "", "read frames from a WAV file instead of a device")
	flag.BoolVar(&opts.demo, "demo", false, "play a synthetic sweep towards the target instead of a device")
	flag.BoolVar(&opts.listDevices, "list-devices", false, "list input devices and exit")
	flag.BoolVar(&opts.listTargets, "list-targets", false, "list target strings and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tuner [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Reports the pitch of the played string until it is within tolerance of the target.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if opts.listTargets {
		printTargets(os.Stdout)
		return 0
	}

	if opts.listDevices {
		if err := printDevices(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "tuner: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tuner: %v\n", err)
		return 1
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	sessCfg, err := cfg.Session()
	if err != nil {
		slog.Error("invalid session configuration", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := openSource(opts, cfg, &sessCfg)
	if err != nil {
		slog.Error("failed to open audio source", "err", err)
		return 1
	}
	defer func() {
		if err := src.Close(); err != nil {
			slog.Warn("closing audio source", "err", err)
		}
	}()

	sessOpts := []tuner.Option{tuner.WithLogger(logger)}

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		mp, shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
		if err != nil {
			slog.Error("failed to initialise metrics", "err", err)
			return 1
		}
		defer func() { _ = shutdown(context.Background()) }()

		metrics, err := observe.NewMetrics(mp)
		if err != nil {
			slog.Error("failed to create metric instruments", "err", err)
			return 1
		}
		sessOpts = append(sessOpts, tuner.WithRecorder(metrics))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	session, err := tuner.NewSession(sessCfg, sessOpts...)
	if err != nil {
		slog.Error("failed to create session", "err", err)
		return 1
	}

	lo, hi := tuning.Band(sessCfg.Target.Frequency(), sessCfg.ToleranceHz)
	fmt.Printf("Tuning %s (%.2f Hz), in tune between %.2f and %.2f Hz\n", sessCfg.Target, sessCfg.Target.Frequency(), lo, hi)

	out, err := runSession(ctx, session, src, srv)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("session failed", "err", err, "cycles", out.Cycles)
		return 1
	}

	switch out.Reason {
	case tuner.ReasonInTune:
		fmt.Println("You are in tune!")
	case tuner.ReasonStreamClosed:
		fmt.Println("Your audio device has been closed.")
	case tuner.ReasonCanceled:
		fmt.Println("Tuning canceled.")
	}

	return 0
}

// loadConfig layers defaults, the optional config file, .env and process
// environment, then explicitly set flags.
func loadConfig(opts options) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			cfg.Target = opts.target
		case "device":
			cfg.Device = opts.device
		case "tolerance":
			cfg.ToleranceHz = opts.tolerance
		case "log-level":
			cfg.LogLevel = config.LogLevel(opts.logLevel)
		case "metrics-addr":
			cfg.MetricsAddr = opts.metricsAddr
		}
	})

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openSource(opts options, cfg *config.Config, sessCfg *tuner.Config) (source, error) {
	switch {
	case opts.wavPath != "":
		src, err := wavfile.Open(opts.wavPath, sessCfg.FrameSize)
		if err != nil {
			return nil, err
		}
		sessCfg.SampleRate = src.SampleRate()
		slog.Info("reading wav file", "path", opts.wavPath, "sample_rate", src.SampleRate(), "channels", src.Channels())
		return src, nil

	case opts.demo:
		target := sessCfg.Target.Frequency()
		src, err := tone.New(tone.Config{
			SampleRate: sessCfg.SampleRate,
			FrameSize:  sessCfg.FrameSize,
			Realtime:   true,
		}, tone.Sweep(target-20, target+20, 2)...)
		if err != nil {
			return nil, err
		}
		slog.Info("playing demo sweep", "from_hz", target-20, "to_hz", target+20)
		return src, nil

	default:
		src, err := device.Open(device.Config{
			Device:     cfg.Device,
			SampleRate: sessCfg.SampleRate,
			FrameSize:  sessCfg.FrameSize,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("listening", "device", src.Device().Name, "sample_rate", sessCfg.SampleRate, "frame_size", sessCfg.FrameSize)
		return src, nil
	}
}

// runSession runs session alongside the optional metrics server. The server
// is shut down as soon as the session stops.
func runSession(ctx context.Context, session *tuner.Session, src tuner.Source, srv *http.Server) (tuner.Outcome, error) {
	g, gctx := errgroup.WithContext(ctx)
	runCtx, stopRun := context.WithCancel(gctx)
	defer stopRun()

	var out tuner.Outcome

	g.Go(func() error {
		defer stopRun()
		var err error
		out, err = session.Run(runCtx, src, printEvent)
		return err
	})

	if srv != nil {
		g.Go(func() error {
			slog.Info("serving metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-runCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	return out, err
}

func printEvent(ev tuner.Event) {
	if !ev.Determined() {
		fmt.Printf("%4d  --  no pitch detected (%.1f dBFS)\n", ev.Cycle, ev.LevelDB)
		return
	}
	fmt.Printf("%4d  %-2s  %7.2f Hz  %+5.1f cents  %s\n", ev.Cycle, ev.Note, ev.Frequency, ev.Cents, ev.Verdict)
}

func printTargets(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tFREQUENCY")
	for _, t := range tuning.Targets() {
		fmt.Fprintf(tw, "%s\t%.2f Hz\n", t, t.Frequency())
	}
	tw.Flush()
}

func printDevices(w io.Writer) error {
	devices, err := device.Devices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Fprintln(w, "no input devices found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tNAME\tHOST API\tCHANNELS\tRATE")
	for _, d := range devices {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.0f Hz\n", d.Index, d.Name, d.HostAPI, d.MaxInputChannels, d.DefaultSampleRate)
	}
	return tw.Flush()
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
