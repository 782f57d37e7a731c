package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader delivers model-ready waveforms: mono, resampled and trailing-padded.
type Loader struct {
	SampleRate int
	Padding    int         // trailing zero samples appended to every waveform
	Transcoder *Transcoder // required for non-WAV assets
}

// Load reads path. WAV files must already be at SampleRate and are padded in
// memory; other containers are transcoded (and padded) by ffmpeg.
func (l *Loader) Load(ctx context.Context, path string) (Waveform, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		w, err := ReadWAVFile(path)
		if err != nil {
			return Waveform{}, fmt.Errorf("read %s: %w", path, err)
		}
		if w.SampleRate != l.SampleRate {
			return Waveform{}, fmt.Errorf("%s: sample rate %d, want %d (resample with ffmpeg -ar %d)",
				path, w.SampleRate, l.SampleRate, l.SampleRate)
		}
		return PadTrailing(w, l.Padding), nil
	}

	if l.Transcoder == nil {
		return Waveform{}, fmt.Errorf("%s: no transcoder configured for %s assets", path, filepath.Ext(path))
	}
	tmp, err := l.Transcoder.ToWAV(ctx, path, l.Padding)
	if err != nil {
		return Waveform{}, err
	}
	defer os.Remove(tmp)

	w, err := ReadWAVFile(tmp)
	if err != nil {
		return Waveform{}, fmt.Errorf("read transcoded %s: %w", path, err)
	}
	if w.SampleRate != l.SampleRate {
		return Waveform{}, fmt.Errorf("%s: transcoded sample rate %d, want %d", path, w.SampleRate, l.SampleRate)
	}
	return w, nil
}
