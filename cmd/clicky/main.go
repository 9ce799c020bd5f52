package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/clicky/audio"
	"github.com/lixenwraith/clicky/config"
	"github.com/lixenwraith/clicky/core"
	"github.com/lixenwraith/clicky/engine"
	"github.com/lixenwraith/clicky/input"
	"github.com/lixenwraith/clicky/persistence"
	"github.com/lixenwraith/clicky/render"
	"github.com/lixenwraith/clicky/status"
)

const loadTimeout = 5 * time.Second

var (
	configFlag      = flag.String("config", "", "TOML config file (empty uses built-in defaults)")
	saveFlag        = flag.String("save", "", "Save location, overrides config and "+config.EnvSavePath)
	backendFlag     = flag.String("backend", "", "Save backend: file or sqlite")
	debugFlag       = flag.Bool("debug", false, "Write logs to "+logDir+"/"+logFileName)
	muteFlag        = flag.Bool("mute", false, "Start with sound off")
	tickFlag        = flag.Int("tick", 0, "Tick period in milliseconds (0 keeps config)")
	writeConfigFlag = flag.Bool("write-config", false, "Print the effective config as TOML and exit")
)

func main() {
	// Terminal is restored by the hook registered once the screen exists
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "clicky: %v\n", err)
		os.Exit(2)
	}

	if *writeConfigFlag {
		if err := cfg.Write(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "clicky: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "clicky: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, file, environment and flags, then validates
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.LookupEnv)

	if *saveFlag != "" {
		cfg.Save.Path = *saveFlag
	}
	if *backendFlag != "" {
		cfg.Save.Backend = *backendFlag
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}
	if *tickFlag > 0 {
		cfg.Engine.TickMS = *tickFlag
	}
	return cfg, cfg.Validate()
}

func openStore(cfg config.Config) (persistence.Store, error) {
	switch cfg.Save.Backend {
	case config.BackendSQLite:
		return persistence.OpenSQLite(cfg.Save.Path, cfg.Save.Slot)
	default:
		return persistence.NewFileStore(cfg.Save.Path), nil
	}
}

func run(cfg config.Config) error {
	reg := status.NewRegistry()
	clock := engine.NewMonotonicTimeProvider()

	rules := cfg.Rules()
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open save: %w", err)
	}
	gateway := persistence.NewGateway(store, persistence.Options{
		Rules:          rules,
		Catalog:        catalog,
		OfflineAccrual: cfg.Engine.OfflineAccrual,
	})
	defer gateway.Close()

	start := clock.Now()
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	state, loadErr := gateway.Load(ctx, start)
	cancel()

	// Sound is optional; the game runs silent when the device is missing
	audioCfg := audio.DefaultConfig()
	audioCfg.Enabled = cfg.Audio.Enabled
	audioCfg.MasterVolume = cfg.MasterVolume()
	sound := audio.NewSoundManager(audioCfg, reg)
	if err := sound.Initialize(); err != nil {
		log.Printf("Audio initialization failed: %v (continuing without audio)", err)
	}
	defer sound.Cleanup()

	ctrl, err := engine.NewController(engine.ControllerConfig{
		Rules:            rules,
		Catalog:          catalog,
		State:            state,
		Start:            start,
		Saver:            gateway,
		Sound:            sound,
		Status:           reg,
		MessageDuration:  cfg.MessageDuration(),
		AutosaveInterval: cfg.AutosaveInterval(),
	})
	if err != nil {
		return err
	}

	switch {
	case loadErr == nil:
		ctrl.Notify("Game Loaded!", start)
	case errors.Is(loadErr, persistence.ErrNotFound):
		ctrl.Notify("No Save Found!", start)
	default:
		ctrl.Notify("Load Failed!", start)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashReset(screen.Fini)
	defer screen.Fini()

	renderer := render.NewRenderer(screen)
	renderer.SetMuted(!sound.Enabled())
	keys := input.DefaultKeyTable()

	// Latest snapshot for key translation; frames carries the newest one to the render loop
	var latest atomic.Pointer[engine.Snapshot]
	initial := ctrl.Snapshot(start)
	latest.Store(&initial)
	frames := make(chan engine.Snapshot, 1)

	scheduler := engine.NewClockScheduler(clock, cfg.TickInterval(), func(now time.Time) {
		ctrl.Tick(now)
		snap := ctrl.Snapshot(now)
		latest.Store(&snap)
		select {
		case frames <- snap:
		default:
			// Renderer is behind; replace the stale frame
			select {
			case <-frames:
			default:
			}
			select {
			case frames <- snap:
			default:
			}
		}
	}, reg)
	scheduler.Start()

	eventChan := make(chan tcell.Event, 256)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	renderer.Draw(initial)

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				renderer.Draw(*latest.Load())
			case *tcell.EventKey:
				entry := keys.Translate(ev, latest.Load())
				switch entry.Behavior {
				case input.BehaviorIntent:
					ctrl.Submit(entry.Intent)
				case input.BehaviorToggleMute:
					sound.SetEnabled(!sound.Enabled())
					renderer.SetMuted(!sound.Enabled())
				case input.BehaviorQuit:
					shutdown(scheduler, ctrl, clock, reg)
					return nil
				}
			}

		case snap := <-frames:
			renderer.Draw(snap)
		}
	}
}

// shutdown stops ticking before the final save so nothing mutates state concurrently
func shutdown(scheduler *engine.ClockScheduler, ctrl *engine.Controller, clock engine.TimeProvider, reg *status.Registry) {
	scheduler.Stop()
	if n := ctrl.Pending(); n > 0 {
		log.Printf("[main] applying %d queued intents before final save", n)
	}
	ctrl.Flush(clock.Now())
	if err := ctrl.SaveNow(); err != nil {
		log.Printf("[main] final save failed: %v", err)
	}
	for _, line := range reg.Lines() {
		log.Printf("[status] %s", line)
	}
}
