// SPDX-License-Identifier: EPL-2.0

// Command audmix plays sound files through the mixer, all at once, each on
// its own voice.
//
//	audmix [flags] file...
//
// With -device wav the mix is written to the file named by -out instead of
// being played.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/decred/slog"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/sample"
	"github.com/ik5/audmix/tables"

	_ "github.com/ik5/audmix/device/malgodev"
	_ "github.com/ik5/audmix/device/nulldev"
	_ "github.com/ik5/audmix/device/otodev"
	_ "github.com/ik5/audmix/device/padev"
	_ "github.com/ik5/audmix/device/sdldev"
	_ "github.com/ik5/audmix/device/wavdev"
)

type options struct {
	device   string
	name     string
	out      string
	rate     int
	voices   int
	volume   int
	mono     bool
	eightBit bool
	lowSound bool
	logLevel string
	files    []string
}

func parseFlags(args []string) (*options, error) {
	o := &options{}

	fs := flag.NewFlagSet("audmix", flag.ContinueOnError)
	fs.StringVar(&o.device, "device", device.Oto.String(), "output device family: "+families())
	fs.StringVar(&o.name, "name", "", "output device name, empty for the default")
	fs.StringVar(&o.out, "out", "", "output file for the wav device")
	fs.IntVar(&o.rate, "rate", 22050, "mix rate in Hz")
	fs.IntVar(&o.voices, "voices", 8, "number of voices")
	fs.IntVar(&o.volume, "volume", 255, "master volume, 0..255")
	fs.BoolVar(&o.mono, "mono", false, "mono output")
	fs.BoolVar(&o.eightBit, "8bit", false, "8-bit output")
	fs.BoolVar(&o.lowSound, "lowsound", false, "mix at half the rate")
	fs.StringVar(&o.logLevel, "loglevel", "info", "log level: trace, debug, info, warn, error, off")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: audmix [flags] file...\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.files = fs.Args()
	if len(o.files) == 0 {
		fs.Usage()
		return nil, errors.New("no files to play")
	}
	return o, nil
}

func families() string {
	names := []string{}
	for f := device.Null; f <= device.WAVFile; f++ {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

func (o *options) config() (mixer.Config, error) {
	family, err := device.ParseFamily(o.device)
	if err != nil {
		return mixer.Config{}, err
	}

	cfg := mixer.DefaultConfig()
	cfg.Family = family
	cfg.SampleRate = o.rate
	if o.lowSound {
		cfg.SampleRate /= 2
	}
	cfg.Voices = o.voices
	if o.mono {
		cfg.Channels = 1
	}
	if o.eightBit {
		cfg.Bits = 8
	}
	cfg.Device = device.Config{Name: o.name, Path: o.out}

	return cfg, cfg.Validate()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "audmix:", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	backend := slog.NewBackend(os.Stderr)
	mixLog := backend.Logger("AMIX")
	devLog := backend.Logger("DEVC")
	level, ok := slog.LevelFromString(opts.logLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", opts.logLevel)
	}
	mixLog.SetLevel(level)
	devLog.SetLevel(level)

	cfg, err := opts.config()
	if err != nil {
		return err
	}
	cfg.Device.Log = devLog

	sounds := make([]*sample.PCM, 0, len(opts.files))
	for _, path := range opts.files {
		pcm, err := audmix.LoadFile(path, sample.Options{Bits: cfg.Bits})
		if err != nil {
			return err
		}
		mixLog.Debugf("loaded %s: %v at %d Hz", path, pcm.Duration(), pcm.Rate)
		sounds = append(sounds, pcm)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := mixer.New(mixer.WithLogger(mixLog))
	if err := m.Init(cfg); err != nil {
		return err
	}
	defer func() {
		if err := m.Shutdown(); err != nil {
			mixLog.Errorf("shutdown: %v", err)
		}
	}()
	m.SetVolume(opts.volume)

	if err := m.TestPlayback(ctx); err != nil {
		return err
	}

	done := make(chan uint64, len(sounds))
	m.SetCallback(func(token uint64) { done <- token })

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i, pcm := range sounds {
			_, err := m.PlaySample(pcm, mixer.PlayOptions{
				Volume:   tables.MaxTotalVolume,
				Left:     tables.MaxTotalVolume,
				Right:    tables.MaxTotalVolume,
				Priority: len(sounds) - i,
				Token:    uint64(i),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", opts.files[i], err)
			}
		}
		return nil
	})
	g.Go(func() error {
		for range sounds {
			select {
			case <-ctx.Done():
				return nil
			case token := <-done:
				mixLog.Infof("finished %s", opts.files[token])
			}
		}
		return nil
	})

	return g.Wait()
}
