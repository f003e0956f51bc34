// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"fmt"
	"sync"
)

// Family identifies a hardware family.
type Family int

const (
	// Null is the headless backend driven by hand.
	Null Family = iota
	// Oto plays through ebitengine/oto.
	Oto
	// PortAudio plays through a PortAudio stream callback.
	PortAudio
	// SDL queues pages to an SDL2 audio device.
	SDL
	// Malgo plays through miniaudio.
	Malgo
	// WAVFile writes every played page to a WAV file.
	WAVFile
)

var familyNames = map[Family]string{
	Null:      "null",
	Oto:       "oto",
	PortAudio: "portaudio",
	SDL:       "sdl",
	Malgo:     "malgo",
	WAVFile:   "wav",
}

func (f Family) String() string {
	if s, ok := familyNames[f]; ok {
		return s
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// ParseFamily looks a family up by its String name.
func ParseFamily(name string) (Family, error) {
	for f, s := range familyNames {
		if s == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupported, name)
}

var (
	// ErrUnsupported is returned for families with no registered backend.
	ErrUnsupported = errors.New("unsupported sound card")

	ErrNull      = errors.New("null device error")
	ErrOto       = errors.New("oto device error")
	ErrPortAudio = errors.New("portaudio device error")
	ErrSDL       = errors.New("sdl device error")
	ErrMalgo     = errors.New("malgo device error")
	ErrWAVFile   = errors.New("wav file device error")
)

var familyErrors = map[Family]error{
	Null:      ErrNull,
	Oto:       ErrOto,
	PortAudio: ErrPortAudio,
	SDL:       ErrSDL,
	Malgo:     ErrMalgo,
	WAVFile:   ErrWAVFile,
}

// Err returns the error tag for the family.
func (f Family) Err() error {
	if err, ok := familyErrors[f]; ok {
		return err
	}
	return ErrUnsupported
}

// Wrap tags err with the family's error.
func (f Family) Wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", f.Err(), err)
}

// Factory creates an unopened backend.
type Factory func() Backend

var (
	registryMtx sync.Mutex
	registry    = make(map[Family]Factory)
)

// Register makes a backend available under f, replacing any earlier one.
func Register(f Family, factory Factory) {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	registry[f] = factory
}

// Open creates a backend for f.
func Open(f Family) (Backend, error) {
	registryMtx.Lock()
	factory, ok := registry[f]
	registryMtx.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, f)
	}
	return factory(), nil
}

// Registered reports whether f has a backend.
func Registered(f Family) bool {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	_, ok := registry[f]
	return ok
}
