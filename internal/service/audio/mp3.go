package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// decodeMP3 returns mono 16-bit samples and the sample rate of an MP3 stream.
// The decoder always yields interleaved stereo.
func decodeMP3(data []byte) ([]int, int, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: decode mp3: %v", ErrUnsupportedFormat, err)
	}

	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: decode mp3: %v", ErrUnsupportedFormat, err)
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	return downmix(samples, 2), d.SampleRate(), nil
}
