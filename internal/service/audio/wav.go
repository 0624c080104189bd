package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	audioFormatPCM = 1
	outputBitDepth = 16
)

// writeWAV writes mono 16-bit PCM samples to a new temp file in dir.
func writeWAV(dir string, samples []int, sampleRate int) (string, int64, error) {
	f, err := os.CreateTemp(dir, "clip-*.wav")
	if err != nil {
		return "", 0, fmt.Errorf("create wav file: %w", err)
	}
	path := f.Name()

	enc := wav.NewEncoder(f, sampleRate, outputBitDepth, 1, audioFormatPCM)
	werr := enc.Write(&goaudio.IntBuffer{
		Data: samples,
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: outputBitDepth,
	})
	if werr == nil {
		werr = enc.Close()
	}
	var size int64
	if werr == nil {
		if info, serr := f.Stat(); serr == nil {
			size = info.Size()
		}
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write wav: %w", werr)
	}
	return path, size, nil
}

// decodeWAV returns mono 16-bit samples and the sample rate of a WAV file.
func decodeWAV(data []byte) ([]int, int, error) {
	if !wav.NewDecoder(bytes.NewReader(data)).IsValidFile() {
		return nil, 0, fmt.Errorf("%w: not a valid wav file", ErrUnsupportedFormat)
	}

	d := wav.NewDecoder(bytes.NewReader(data))
	buf, err := d.FullPCMBuffer()
	if err != nil && err != io.EOF {
		return nil, 0, fmt.Errorf("%w: decode wav: %v", ErrUnsupportedFormat, err)
	}
	if buf == nil || buf.Format == nil {
		return nil, 0, fmt.Errorf("%w: wav has no pcm data", ErrUnsupportedFormat)
	}

	samples := to16Bit(buf.Data, int(d.BitDepth))
	return downmix(samples, buf.Format.NumChannels), buf.Format.SampleRate, nil
}

// to16Bit rescales samples decoded at bitDepth to the signed 16-bit range.
func to16Bit(samples []int, bitDepth int) []int {
	switch {
	case bitDepth == 8:
		out := make([]int, len(samples))
		for i, s := range samples {
			out[i] = (s - 128) << 8
		}
		return out
	case bitDepth > 16:
		shift := uint(bitDepth - 16)
		out := make([]int, len(samples))
		for i, s := range samples {
			out[i] = s >> shift
		}
		return out
	default:
		return samples
	}
}

// downmix averages interleaved channels into one.
func downmix(samples []int, channels int) []int {
	if channels <= 1 {
		return samples
	}
	out := make([]int, len(samples)/channels)
	for i := range out {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		out[i] = sum / channels
	}
	return out
}
