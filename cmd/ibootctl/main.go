package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danmuck/ibootctl"
	"github.com/danmuck/ibootctl/internal/config"
	"github.com/danmuck/ibootctl/internal/observability"
	"github.com/rs/zerolog"
)

const usage = `usage: ibootctl -config <device.toml> [-v] <command> [args]

commands:
  switch <relay> on|off            switch one relay
  switch-all <relay>=on|off[,...]  switch several relays
  get                              print relay states
  pulse <relay> on|off <width_ms>  pulse one relay
`

func main() {
	configPath := flag.String("config", "device.toml", "path to device TOML config")
	verbose := flag.Bool("v", false, "enable debug tracing")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger := observability.InitLogger("ibootctl")
	if !*verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	cfg, err := config.LoadDeviceConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ibootctl: %v\n", err)
		os.Exit(1)
	}

	opts := []ibootctl.DeviceOption{
		ibootctl.WithPort(cfg.Port),
		ibootctl.WithRelayCount(cfg.Relays),
		ibootctl.WithLogger(logger),
	}
	if timeout := cfg.ParseTimeout(); timeout > 0 {
		opts = append(opts, ibootctl.WithTimeout(timeout))
	}
	dev := ibootctl.NewDevice(cfg.Host, cfg.Username, cfg.Password, opts...)

	if err := run(dev, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "ibootctl: %v\n", err)
		os.Exit(1)
	}
}

func run(dev *ibootctl.Device, args []string) error {
	switch args[0] {
	case "switch":
		if len(args) != 3 {
			return fmt.Errorf("switch wants <relay> on|off")
		}
		relay, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad relay %q: %w", args[1], err)
		}
		on, err := parseState(args[2])
		if err != nil {
			return err
		}
		if !dev.Switch(relay, on) {
			return fmt.Errorf("switch relay=%d failed", relay)
		}
		fmt.Printf("relay %d -> %s\n", relay, args[2])
		return nil

	case "switch-all":
		if len(args) != 2 {
			return fmt.Errorf("switch-all wants <relay>=on|off[,...]")
		}
		states, err := parseStates(args[1])
		if err != nil {
			return err
		}
		if !dev.SwitchMultiple(states) {
			return fmt.Errorf("switch-all failed")
		}
		fmt.Printf("applied %d relay states\n", len(states))
		return nil

	case "get":
		states := dev.GetRelays()
		if states == nil {
			return fmt.Errorf("get relays failed")
		}
		for i, on := range states {
			state := "off"
			if on {
				state = "on"
			}
			fmt.Printf("relay %d: %s\n", i+1, state)
		}
		return nil

	case "pulse":
		if len(args) != 4 {
			return fmt.Errorf("pulse wants <relay> on|off <width_ms>")
		}
		relay, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad relay %q: %w", args[1], err)
		}
		on, err := parseState(args[2])
		if err != nil {
			return err
		}
		width, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("bad pulse width %q: %w", args[3], err)
		}
		if !dev.PulseRelay(relay, on, width) {
			return fmt.Errorf("pulse relay=%d failed", relay)
		}
		fmt.Printf("relay %d pulsed %s for %dms\n", relay, args[2], width)
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func parseState(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("bad state %q (want on|off)", raw)
	}
}

func parseStates(raw string) (map[int]bool, error) {
	states := make(map[int]bool)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("bad state pair %q (want relay=on|off)", pair)
		}
		relay, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("bad relay %q: %w", key, err)
		}
		on, err := parseState(value)
		if err != nil {
			return nil, err
		}
		states[relay] = on
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("no relay states given")
	}
	return states, nil
}
