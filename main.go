package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"music-board/audio"
	"music-board/config"
	"music-board/debug"
	"music-board/firmware"
	"music-board/gpio"
	"music-board/hw"
	"music-board/input"
	"music-board/link"
	"music-board/midi"
	"music-board/music"
	"music-board/player"
	"music-board/sim"
	"music-board/theme"
	"music-board/tui"
)

type options struct {
	configPath string
	backend    string
	headless   bool
	noAudio    bool
	linkPort   string
	verbose    bool
	logPath    string
	track      int
	write      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/music-board/config.json)")
	flag.StringVar(&opts.backend, "backend", "", "board backend: sim or gpio")
	flag.BoolVar(&opts.headless, "headless", false, "run without the terminal UI")
	flag.BoolVar(&opts.noAudio, "no-audio", false, "do not play the simulated tone")
	flag.StringVar(&opts.linkPort, "link", "", "mirror output to this serial device")
	flag.BoolVar(&opts.verbose, "debug", false, "verbose logging")
	flag.StringVar(&opts.logPath, "log", "", "write the log to this file")
	flag.IntVar(&opts.track, "track", -1, "start at this track index")
	flag.BoolVar(&opts.write, "write-config", false, "write the effective config and exit")
	flag.Parse()

	if opts.write {
		if err := writeConfig(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.Backend == config.BackendGPIO {
		// The panel needs the simulated board to draw and to press.
		opts.headless = true
	}

	switch {
	case cfg.Log.Path != "":
		if err := debug.Enable(cfg.Log.Path, cfg.Log.Verbose); err != nil {
			return err
		}
	case opts.headless:
		debug.EnableWriter(os.Stderr, cfg.Log.Verbose)
	}
	defer debug.Disable()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		board   firmware.Board
		buttons *sim.Buttons
		simOut  *sim.Output
	)
	switch cfg.Backend {
	case config.BackendGPIO:
		out, pins, err := gpio.Open(gpioPins(cfg.GPIO))
		if err != nil {
			return err
		}
		board = firmware.Board{Pins: pins, Out: out}
	default:
		buttons = &sim.Buttons{}
		simOut = sim.NewOutput()
		board = firmware.Board{Pins: buttons.Pins(), Out: simOut}
	}

	if cfg.Link.Port != "" {
		port, err := link.Open(cfg.Link.Port, cfg.Link.Baud)
		if err != nil {
			return err
		}
		defer port.Close()
		board.Out = hw.Tee(board.Out, port)
	}

	fw, err := firmware.New(board, music.Builtin(), firmware.Options{
		SampleHz: cfg.SampleHz,
		Timing:   timing(cfg.Timing),
		Start:    cfg.Start,
	})
	if err != nil {
		return err
	}

	if simOut != nil && cfg.Audio.Enabled && !opts.noAudio {
		p, err := audio.Open(simOut, cfg.Audio.SampleRate)
		if err != nil {
			debug.Log("audio", "disabled: %v", err)
		} else {
			defer p.Close()
		}
	}

	var deviceMgr *midi.DeviceManager
	if buttons != nil && cfg.MIDI.Enabled {
		deviceMgr = midi.NewDeviceManager(mapping(cfg.MIDI))
		bridge := midi.NewBridge(deviceMgr, buttons, func() [3]uint8 {
			r, g, b := simOut.Snapshot().RGB()
			return [3]uint8{r, g, b}
		})
		go bridge.Run(ctx)
	}

	if opts.headless {
		err := fw.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	palette, err := theme.LoadOrDefault(cfg.UI.Palette)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	m := tui.NewModel(fw.Player(), simOut, buttons, deviceMgr, theme.New(palette), time.Duration(cfg.UI.PressMs)*time.Millisecond)
	_, uiErr := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	cancel()
	<-done
	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		return uiErr
	}
	return nil
}

func loadConfig(opts options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
		if opts.write && errors.Is(err, os.ErrNotExist) {
			cfg, err = config.DefaultConfig(), nil
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.backend != "" {
		cfg.Backend = opts.backend
	}
	if opts.linkPort != "" {
		cfg.Link.Port = opts.linkPort
	}
	if opts.logPath != "" {
		cfg.Log.Path = opts.logPath
	}
	if opts.verbose {
		cfg.Log.Verbose = true
	}
	if opts.track >= 0 {
		cfg.Start = opts.track
	}
	return cfg, cfg.Validate()
}

// writeConfig saves the defaults merged with any file and flag overrides,
// to -config when given and to the user config path otherwise.
func writeConfig(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.configPath != "" {
		err = cfg.SaveFile(opts.configPath)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		return err
	}
	fmt.Println("config written")
	return nil
}

func timing(t config.TimingConfig) player.Timing {
	return player.Timing{
		LeadIn:     time.Duration(t.LeadInMs) * time.Millisecond,
		Gap:        time.Duration(t.GapMs) * time.Millisecond,
		TrackPause: time.Duration(t.TrackPauseMs) * time.Millisecond,
	}
}

func mapping(c config.MIDIConfig) midi.Mapping {
	m := midi.DefaultMapping()
	for i := 0; i < input.NumButtons; i++ {
		m.Pads[i] = uint8(c.Pads[i])
		m.CCs[i] = uint8(c.CCs[i])
		m.Keys[i] = uint8(c.Keys[i])
	}
	m.LED = uint8(c.LED)
	if len(c.Launchpads) > 0 {
		m.Launchpads = c.Launchpads
	}
	m.Keyboards = c.Keyboards
	return m
}

func gpioPins(c config.GPIOConfig) gpio.Pins {
	var p gpio.Pins
	copy(p.Buttons[:], c.Buttons)
	copy(p.Outputs[:], c.Outputs)
	return p
}
