// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMem is returned when the voice arena or the ring do not fit in
	// Config.MemoryLimit.
	ErrNoMem = errors.New("out of memory in mixer")
	// ErrNoVoices is returned when no voice slot could be obtained.
	ErrNoVoices = errors.New("no free voices available")
	// ErrVoiceNotFound is returned for handles that are not playing. It is
	// a warning: callers routinely race against completion.
	ErrVoiceNotFound = errors.New("voice not found")
	// ErrUnsupportedCard is returned when no backend serves the family.
	ErrUnsupportedCard = errors.New("unsupported sound card")
	// ErrDMAFailure is returned when the device position never moved.
	ErrDMAFailure = errors.New("DMA failure")
	// ErrDMA16Failure is ErrDMAFailure for 16-bit output.
	ErrDMA16Failure = errors.New("16-bit DMA failure")
	// ErrIrqFailure is returned when the device position moves but no page
	// boundary was ever serviced.
	ErrIrqFailure = errors.New("IRQ failure")
	// ErrNotInstalled is returned by operations that need Init first.
	ErrNotInstalled = errors.New("mixer not installed")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid mixer configuration")
	// ErrInvalidLoop is returned for loop regions outside the sample.
	ErrInvalidLoop = errors.New("invalid loop region")
)

// IsWarning reports whether err is of the non-fatal class.
func IsWarning(err error) bool {
	return errors.Is(err, ErrVoiceNotFound)
}

// LastError returns the error recorded by the most recent failing
// operation, or nil.
func (m *Mixer) LastError() error {
	m.errMtx.Lock()
	defer m.errMtx.Unlock()

	return m.lastErr
}

// fail records err as the last error and returns it.
func (m *Mixer) fail(err error) error {
	m.errMtx.Lock()
	m.lastErr = err
	m.errMtx.Unlock()

	return err
}

func (m *Mixer) notFound(handle int) error {
	m.log.Debugf("voice %d not found", handle)
	return m.fail(fmt.Errorf("%w: handle %d", ErrVoiceNotFound, handle))
}
