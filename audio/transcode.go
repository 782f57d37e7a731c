package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Transcoder converts arbitrary containers (m4a, mp3, ...) to mono WAV with ffmpeg.
type Transcoder struct {
	Binary     string // ffmpeg executable, "ffmpeg" when empty
	TempDir    string // os.TempDir() when empty
	SampleRate int
}

// Args returns the ffmpeg arguments converting in to out with padding trailing zero samples.
func (t *Transcoder) Args(in, out string, padding int) []string {
	args := []string{"-y", "-i", in}
	if padding > 0 {
		args = append(args, "-af", "apad=pad_len="+strconv.Itoa(padding))
	}
	return append(args,
		"-ar", strconv.Itoa(t.SampleRate),
		"-ac", "1",
		"-f", "wav",
		out,
	)
}

// ToWAV runs ffmpeg and returns the path of a temporary WAV file.
// The caller removes the file.
func (t *Transcoder) ToWAV(ctx context.Context, in string, padding int) (string, error) {
	bin := t.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	f, err := os.CreateTemp(t.TempDir, base+"_*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}
	out := f.Name()
	f.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, t.Args(in, out, padding)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("ffmpeg %s: %w: %s", in, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
