// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/sample"
)

// Example_roundTrip writes a short 16-bit clip and reads it back.
func Example_roundTrip() {
	dir, err := os.MkdirTemp("", "wav-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "clip.wav")
	f, _ := os.Create(path)
	clip := &sample.PCM{Rate: 11025, Bits: 16, Data16: make([]int16, 11025)}
	if err := wav.WritePCM(f, clip); err != nil {
		fmt.Println("error:", err)
		return
	}
	f.Close()

	in, _ := os.Open(path)
	defer in.Close()

	src, err := wav.Decoder{}.Decode(in)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	pcm, _ := sample.Read(src, sample.Options{})
	fmt.Printf("%d Hz, %d samples, %v\n", pcm.Rate, pcm.Len(), pcm.Duration())
	// Output:
	// 11025 Hz, 11025 samples, 1s
}
