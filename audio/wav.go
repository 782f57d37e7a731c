package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadWAV decodes a 16-bit PCM mono WAV stream.
// It returns an error if the stream is not mono or not 16-bit.
func ReadWAV(r io.ReadSeeker) (Waveform, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Waveform{}, errors.New("not a valid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("read PCM buffer: %w", err)
	}
	if buf.Format == nil {
		return Waveform{}, errors.New("missing fmt chunk")
	}
	if buf.Format.NumChannels != 1 {
		return Waveform{}, fmt.Errorf("unsupported channel count %d (only mono supported)", buf.Format.NumChannels)
	}
	if dec.BitDepth != 16 {
		return Waveform{}, fmt.Errorf("unsupported bits per sample %d (only 16 supported)", dec.BitDepth)
	}

	samples := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float64(s) / 32768.0
	}
	return Waveform{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// ReadWAVFile is a convenience wrapper that opens a file path.
func ReadWAVFile(path string) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, err
	}
	defer f.Close()
	return ReadWAV(f)
}

// WriteWAV encodes w as 16-bit PCM mono. Samples are clipped to [-1, 1].
func WriteWAV(out io.WriteSeeker, w Waveform) error {
	data := make([]int, len(w.Samples))
	for i, s := range w.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767.0)
	}

	enc := wav.NewEncoder(out, w.SampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  w.SampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}
	return nil
}

// WriteWAVFile writes w to path.
func WriteWAVFile(path string, w Waveform) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, w); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
