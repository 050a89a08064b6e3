package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-render/internal/config"
	"github.com/coreman2200/arcaluminis-render/internal/demo"
	"github.com/coreman2200/arcaluminis-render/internal/manager"
	"github.com/coreman2200/arcaluminis-render/internal/render"
	"github.com/coreman2200/arcaluminis-render/internal/scene"
	"github.com/coreman2200/arcaluminis-render/internal/sink"
	"github.com/coreman2200/arcaluminis-render/internal/sink/led"
	"github.com/coreman2200/arcaluminis-render/internal/window"
)

func main() {
	// ---- Flags (override config.yaml when given) ----
	var (
		configPath    = flag.String("config", "config.yaml", "path to config.yaml")
		sceneName     = flag.String("scene", "shapes", "demo scene to render (see -list)")
		list          = flag.Bool("list", false, "list demo scenes and exit")
		preview       = flag.Bool("preview", false, "serve a live preview window and interact after rendering")
		renderer      = flag.String("renderer", "raster", "render backend: raster | accelerated")
		fps           = flag.Float64("fps", 30, "frames per second")
		width         = flag.Int("width", 640, "frame width in pixels")
		height        = flag.Int("height", 360, "frame height in pixels")
		out           = flag.String("out", "", "write a PNG frame sequence under this directory")
		saveLastFrame = flag.Bool("save-last-frame", false, "keep only the final frame")
		addr          = flag.String("addr", ":8080", "preview window listen address")
		mqttURL       = flag.String("mqtt", "", "stream frames to this MQTT broker, e.g. tcp://localhost:1883")
		ledOn         = flag.Bool("led", false, "mirror frames on the SPI LED matrix")
		workers       = flag.Int("workers", 0, "accelerated backend workers (0 = GOMAXPROCS)")
		verbose       = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	reg := demo.Default()
	if *list {
		for _, n := range reg.List() {
			fmt.Println(n)
		}
		return
	}

	// ---- Config: defaults < config.yaml < explicit flags ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
		log.Debug().Str("path", *configPath).Msg("no config file; using defaults and flags")
	} else {
		cfg = *c
	}
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "preview":
			cfg.Preview = *preview
		case "renderer":
			k, err := config.ParseRendererKind(*renderer)
			if err != nil {
				flagErr = err
			}
			cfg.Renderer = k
		case "fps":
			cfg.FrameRate = *fps
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "out":
			cfg.Output.Dir = *out
		case "save-last-frame":
			cfg.SaveLastFrame = *saveLastFrame
		case "addr":
			cfg.PreviewServer.Addr = *addr
		case "mqtt":
			cfg.MQTT.URL = *mqttURL
		case "led":
			cfg.LED.Enabled = *ledOn
		}
	})
	if flagErr != nil {
		log.Fatal().Err(flagErr).Msg("bad flag")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, reg, *sceneName, cfg, *workers); err != nil {
		log.Error().Err(err).Msg("render failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, reg *demo.Registry, name string, cfg config.Config, workers int) error {
	newScene, ok := reg.Get(name)
	if !ok {
		return fmt.Errorf("unknown scene %q (have %v)", name, reg.List())
	}
	cam := scene.DefaultCamera(cfg.Width, cfg.Height)
	cam.Background = cfg.BackgroundColor()
	sc := newScene(cam)

	var client mqtt.Client
	if cfg.MQTT.URL != "" {
		c, err := connectMQTT(cfg.MQTT)
		if err != nil {
			return err
		}
		client = c
		defer client.Disconnect(250)
	}

	opts := []manager.Option{
		manager.WithLogger(log.Logger),
		manager.WithBackendOptions(
			render.WithPost(render.PostFromConfig(cfg.Post)),
			render.WithWorkers(workers),
			render.WithLogger(log.Logger),
		),
		manager.WithSinkFactory(sinkFactory(cfg, client)),
	}
	if cfg.Preview {
		opts = append(opts, manager.WithWindowFactory(func() (window.Window, error) {
			p, err := window.NewPreview(cfg.PreviewServer.Addr, cfg.Width, cfg.Height,
				window.WithLogger(log.Logger),
				window.WithThrottle(time.Duration(cfg.PreviewServer.ThrottleMs)*time.Millisecond),
			)
			if err != nil {
				return nil, err
			}
			// ctrl-c while interacting closes the window like a viewer would
			context.AfterFunc(ctx, p.RequestClose)
			return p, nil
		}))
	}

	m, err := manager.New(sc, cfg, opts...)
	if err != nil {
		return err
	}
	log.Info().
		Str("scene", sc.DefaultName()).
		Str("kind", cfg.Renderer.String()).
		Float64("fps", cfg.FrameRate).
		Bool("preview", cfg.Preview).
		Msg("rendering")
	return m.Render(ctx)
}

// sinkFactory tees every configured output for the scene.
func sinkFactory(cfg config.Config, client mqtt.Client) sink.Factory {
	return func(name string) (sink.Sink, error) {
		var sinks []sink.Sink
		if cfg.Output.Dir != "" {
			every := 0
			if cfg.Output.Progress {
				every = max(1, int(cfg.FrameRate))
			}
			f, err := sink.NewFrames(cfg.Output.Dir, name,
				sink.WithFramesLogger(log.Logger),
				sink.WithLastFrameOnly(cfg.SaveLastFrame),
				sink.WithProgress(every),
			)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, f)
		}
		if client != nil {
			s, err := sink.NewMQTT(client, cfg.MQTT.Topic, cfg.MQTT.Pixels, sink.WithMQTTLogger(log.Logger))
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, s)
		}
		if cfg.LED.Enabled {
			s, err := led.Open(cfg.LED, log.Logger)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, s)
		}
		if len(sinks) == 0 {
			log.Warn().Msg("no output configured; frames are discarded (use -out, -mqtt or -led)")
		}
		return sink.NewTee(sinks...), nil
	}
}

func connectMQTT(c config.MQTT) (mqtt.Client, error) {
	options := mqtt.NewClientOptions().
		AddBroker(c.URL).
		SetClientID(c.ClientID).
		SetUsername(c.Username).
		SetPassword(c.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Info().Str("broker", c.URL).Msg("mqtt connected")
		})
	client := mqtt.NewClient(options)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", c.URL, token.Error())
	}
	return client, nil
}
