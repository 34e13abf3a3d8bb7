package tts

import (
	"errors"
	"lingoquest/models"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

func TestEncodeWAVRoundTrip(t *testing.T) {
	samples := make([]float32, 5000)
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i) / 50.0))
	}
	path := filepath.Join(t.TempDir(), "roundtrip.wav")
	size, err := EncodeWAVFile(path, samples, 22050)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	wantSize := int64(wavHeaderSize + len(samples)*2)
	if size != wantSize {
		t.Errorf("expected size %d, got %d", wantSize, size)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat wav: %v", err)
	}
	if fi.Size() != wantSize {
		t.Errorf("on-disk size %d != reported %d", fi.Size(), wantSize)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open wav: %v", err)
	}
	defer f.Close()
	streamer, format, err := wav.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode wav: %v", err)
	}
	defer streamer.Close()
	if format.SampleRate != beep.SampleRate(22050) {
		t.Errorf("expected rate 22050, got %d", format.SampleRate)
	}
	if format.NumChannels != 1 {
		t.Errorf("expected mono, got %d channels", format.NumChannels)
	}
	decoded := make([]float64, 0, len(samples))
	buf := make([][2]float64, 512)
	for {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n; i++ {
			decoded = append(decoded, buf[i][0])
		}
		if !ok {
			break
		}
	}
	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples back, got %d", len(samples), len(decoded))
	}
	// one quantization step, with slack for the decoder's own scaling
	tolerance := 2.0 / 32768.0
	for i, d := range decoded {
		if diff := math.Abs(d - float64(samples[i])); diff > tolerance {
			t.Fatalf("sample %d: got %f want %f (diff %f)", i, d, samples[i], diff)
		}
	}
}

func TestEncodeWAVClamps(t *testing.T) {
	cases := []struct {
		in   float32
		want int16
	}{
		{in: 2.5, want: 32767},
		{in: 1.0, want: 32767},
		{in: 0.0, want: 0},
		{in: -1.0, want: -32768},
		{in: -3.0, want: -32768},
		{in: 0.5, want: 16383},
		{in: -0.5, want: -16384},
	}
	for _, tc := range cases {
		if got := quantize(tc.in); got != tc.want {
			t.Errorf("quantize(%f): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestEncodeWAVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	if _, err := EncodeWAVFile(path, nil, 22050); !errors.Is(err, models.ErrEmptySamples) {
		t.Fatalf("expected ErrEmptySamples, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file on failed encode, stat err: %v", err)
	}
	if _, err := EncodeWAVFile(path, []float32{0.1}, 0); !errors.Is(err, models.ErrEmptySamples) {
		t.Fatalf("expected validation error on zero rate, got %v", err)
	}
}
