// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/sample"
)

// Format names known to Decoders.
const (
	FormatWAV    = "wav"
	FormatAIFF   = "aiff"
	FormatMP3    = "mp3"
	FormatVorbis = "vorbis"
)

var decoders = sync.OnceValue(func() *sample.Registry {
	r := sample.NewRegistry()
	r.Register(FormatWAV, wav.Decoder{}, ".wav", ".wave")
	r.Register(FormatAIFF, aiff.Decoder{}, ".aiff", ".aif")
	r.Register(FormatMP3, mp3.Decoder{}, ".mp3")
	r.Register(FormatVorbis, vorbis.Decoder{}, ".ogg", ".oga")
	return r
})

// Decoders returns the registry LoadFile and Load use. Registering more
// decoders on it makes them available to both.
func Decoders() *sample.Registry {
	return decoders()
}

// LoadFile decodes the file at path, choosing the decoder by extension.
func LoadFile(path string, opts sample.Options) (*sample.PCM, error) {
	dec, ok := Decoders().ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", sample.ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pcm, err := decode(dec, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pcm, nil
}

// Load decodes r with the decoder registered under format.
func Load(r io.Reader, format string, opts sample.Options) (*sample.PCM, error) {
	dec, ok := Decoders().Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", sample.ErrUnknownFormat, format)
	}
	return decode(dec, r, opts)
}

func decode(dec sample.Decoder, r io.Reader, opts sample.Options) (*sample.PCM, error) {
	src, err := dec.Decode(r)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return sample.Read(src, opts)
}
