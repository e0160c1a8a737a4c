package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.bug.st/serial"

	"music-board/config"
	"music-board/input"
	"music-board/link"
	mb "music-board/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "watch":
		watch(ctx)
	case "leds":
		testLEDs(ctx)
	case "frames":
		if len(os.Args) < 3 {
			usage()
			return
		}
		readFrames(ctx, os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("music-board device tests")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List MIDI and serial ports")
	fmt.Println("  watch         - Print button presses from mapped controllers")
	fmt.Println("  leds          - Cycle colours on the indicator pad")
	fmt.Println("  frames <dev>  - Decode link frames arriving on a serial device")
}

func mapping() mb.Mapping {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	m := mb.DefaultMapping()
	for i := 0; i < input.NumButtons; i++ {
		m.Pads[i] = uint8(cfg.MIDI.Pads[i])
		m.CCs[i] = uint8(cfg.MIDI.CCs[i])
		m.Keys[i] = uint8(cfg.MIDI.Keys[i])
	}
	m.LED = uint8(cfg.MIDI.LED)
	m.Keyboards = cfg.MIDI.Keyboards
	return m
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.GetInPorts(), outs: midi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! MIDI port listing is hung.")
	}

	fmt.Println("\n=== Serial Ports ===")
	ports, err := link.Ports()
	if err != nil {
		fmt.Printf("  error: %v\n", err)
		return
	}
	for _, p := range ports {
		fmt.Printf("  %s\n", p)
	}
}

// printLines implements mb.Lines by printing every level change.
type printLines struct{}

func (printLines) Set(b input.Button, high bool) {
	state := "up"
	if high {
		state = "down"
	}
	fmt.Printf("[%s] %-8s %s\n", time.Now().Format("15:04:05.000"), b, state)
}

func watch(ctx context.Context) {
	fmt.Println("Watching mapped controllers. Connect devices any time. Ctrl+C to exit.")
	dm := mb.NewDeviceManager(mapping())
	go func() {
		for range time.Tick(2 * time.Second) {
			for id, c := range dm.Controllers() {
				fmt.Printf("  connected: %s (%s)\n", id, c.Type())
			}
		}
	}()
	mb.NewBridge(dm, printLines{}, nil).Run(ctx)
}

func testLEDs(ctx context.Context) {
	fmt.Println("Cycling the indicator pad. Ctrl+C to exit.")
	colours := [][3]uint8{
		{255, 0, 0}, {255, 200, 0}, {0, 255, 0}, {0, 200, 200}, {0, 100, 255}, {150, 0, 200}, {255, 255, 255}, {0, 0, 0},
	}
	start := time.Now()
	dm := mb.NewDeviceManager(mapping())
	mb.NewBridge(dm, printLines{}, func() [3]uint8 {
		return colours[int(time.Since(start)/(500*time.Millisecond))%len(colours)]
	}).Run(ctx)
}

func readFrames(ctx context.Context, name string) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: link.DefaultBaud})
	if err != nil {
		fmt.Printf("Error opening %s: %v\n", name, err)
		return
	}
	defer port.Close()
	port.SetReadTimeout(200 * time.Millisecond)

	var buf []byte
	chunk := make([]byte, 256)
	for ctx.Err() == nil {
		n, err := port.Read(chunk)
		if err != nil && err != io.EOF {
			fmt.Printf("Read error: %v\n", err)
			return
		}
		buf = append(buf, chunk[:n]...)
		for len(buf) > 0 {
			f, used, err := link.Decode(buf)
			if err == link.ErrShortFrame {
				break
			}
			if err != nil {
				buf = buf[1:] // resync
				continue
			}
			fmt.Printf("cmd %#02x payload % x\n", f.Cmd, f.Payload)
			buf = buf[used:]
		}
	}
}
