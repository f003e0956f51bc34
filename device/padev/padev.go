// SPDX-License-Identifier: EPL-2.0

// Package padev plays through a PortAudio callback stream. The stream is
// non-interleaved, so the device asks the mixer for one block per channel
// on every callback and the mixer keeps the two channels in split rings.
package padev

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/decred/slog"
	"github.com/gordonklaus/portaudio"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/utils"
)

func init() {
	device.Register(device.PortAudio, func() device.Backend { return New() })
}

// Backend is a demand-feed device.Backend.
type Backend struct {
	log slog.Logger
	cfg device.Config
	dev *portaudio.DeviceInfo

	mtx    sync.Mutex
	stream *portaudio.Stream
	pb     device.Playback
}

var _ device.Backend = (*Backend)(nil)

// New returns an unopened backend.
func New() *Backend {
	return &Backend{log: slog.Disabled}
}

// Init implements device.Backend. It initializes PortAudio and picks the
// output device by name, or the default one.
func (b *Backend) Init(cfg device.Config) (device.Caps, error) {
	b.log = cfg.Logger()
	b.cfg = cfg

	if err := portaudio.Initialize(); err != nil {
		return device.Caps{}, err
	}

	dev, err := outputDevice(cfg.Name)
	if err != nil {
		portaudio.Terminate()
		return device.Caps{}, err
	}
	b.dev = dev
	b.log.Debugf("portaudio: using %q", dev.Name)

	return device.Caps{DemandFeed: true}, nil
}

func outputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		return portaudio.DefaultOutputDevice()
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Name == name && d.MaxOutputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no output device named %q", name)
}

// SetMixMode implements device.Backend. Mono devices get mono output.
func (b *Backend) SetMixMode(m device.Mode) device.Mode {
	if b.dev != nil && b.dev.MaxOutputChannels < 2 {
		m &^= device.Stereo
	}
	return m
}

// BeginBufferedPlayback implements device.Backend.
func (b *Backend) BeginBufferedPlayback(p device.Playback) (int, error) {
	params := portaudio.LowLatencyParameters(nil, b.dev)
	params.Output.Channels = p.Mode.Channels()
	params.SampleRate = float64(p.Rate)
	params.FramesPerBuffer = p.Frames()
	if b.cfg.Latency > 0 {
		params.Output.Latency = b.cfg.Latency
	}

	b.mtx.Lock()
	b.pb = p
	b.mtx.Unlock()

	stream, err := portaudio.OpenStream(params, b.process)
	if err != nil {
		return 0, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return 0, err
	}

	b.mtx.Lock()
	b.stream = stream
	b.mtx.Unlock()

	rate := int(stream.Info().SampleRate)
	b.log.Debugf("portaudio: %d channels at %d Hz, %d frames per buffer",
		p.Mode.Channels(), rate, params.FramesPerBuffer)

	return rate, nil
}

// process is the stream callback. Each output channel is filled from its
// own mixer block.
func (b *Backend) process(out [][]float32) {
	host, mode := b.pb.Host, b.pb.Mode

	for ch := range out {
		fillChannel(out[ch], host.NextBlock(ch), mode)
	}
}

func fillChannel(dst []float32, block []byte, mode device.Mode) {
	bps := mode.BytesPerSample()

	n := 0
	if block != nil {
		n = min(len(dst), len(block)/bps)
	}
	for i := range n {
		if bps == 1 {
			dst[i] = utils.Uint8ToFloat32(block[i])
		} else {
			dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(block[2*i:])))
		}
	}
	clear(dst[n:])
}

// CurrentPosition implements device.Backend. A callback stream has no
// position.
func (b *Backend) CurrentPosition() (int, bool) {
	return 0, false
}

// StopPlayback implements device.Backend. Stop returns once the last
// callback has finished.
func (b *Backend) StopPlayback() {
	b.mtx.Lock()
	stream := b.stream
	b.stream = nil
	b.mtx.Unlock()

	if stream == nil {
		return
	}
	if err := stream.Stop(); err != nil {
		b.log.Warnf("portaudio: stopping stream: %v", err)
	}
	if err := stream.Close(); err != nil {
		b.log.Warnf("portaudio: closing stream: %v", err)
	}
}

// Shutdown implements device.Backend.
func (b *Backend) Shutdown() error {
	b.StopPlayback()
	return portaudio.Terminate()
}
