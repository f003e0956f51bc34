// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// Source is a stream of decoded audio.
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels per frame.
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1, 1] and
	// returns the number of values written. io.EOF marks the end of the
	// stream and may come with a final n > 0.
	ReadSamples(dst []float32) (n int, err error)
	// BufSize is a read size, in values, that suits the decoder.
	BufSize() int
	// Close releases the underlying decoder.
	Close() error
}

// Decoder constructs a Source from a reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(r io.Reader) (Source, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(r io.Reader) (Source, error) { return f(r) }

// Registry holds decoders by format name and by file extension.
type Registry struct {
	mtx    sync.Mutex
	codecs map[string]Decoder
	exts   map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
	}
}

// Register adds d under format and binds the given extensions to it.
// Extensions are matched case-insensitively and include the dot.
func (r *Registry) Register(format string, d Decoder, exts ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
	for _, ext := range exts {
		r.exts[strings.ToLower(ext)] = format
	}
}

// Get returns the decoder registered under format.
func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// ForPath returns the decoder bound to the extension of path.
func (r *Registry) ForPath(path string) (Decoder, bool) {
	r.mtx.Lock()
	format, ok := r.exts[strings.ToLower(filepath.Ext(path))]
	r.mtx.Unlock()

	if !ok {
		return nil, false
	}
	return r.Get(format)
}

// Formats returns the registered format names.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	return names
}
