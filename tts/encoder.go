package tts

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"lingoquest/models"
	"os"
)

const (
	// DefaultSampleRate is assumed when the model does not report a rate.
	DefaultSampleRate = 22050
	wavHeaderSize     = 44
	// samples per data-chunk write; bounds memory on long utterances
	encodeChunkSamples = 4096
)

// EncodeWAV writes samples as single-channel 16-bit little-endian PCM.
// Samples are clamped to [-1, 1]; negative values scale by 32768 and
// non-negative by 32767. The asymmetry is part of the byte-exact contract.
func EncodeWAV(w io.Writer, samples []float32, sampleRate int) error {
	if len(samples) == 0 {
		return models.ErrEmptySamples
	}
	if sampleRate <= 0 {
		return fmt.Errorf("%w: bad sample rate %d", models.ErrEmptySamples, sampleRate)
	}
	dataSize := len(samples) * 2
	if err := writeWavHeader(w, dataSize, sampleRate); err != nil {
		return fmt.Errorf("%w: %s", models.ErrAudioWrite, err)
	}
	buf := make([]byte, encodeChunkSamples*2)
	for start := 0; start < len(samples); start += encodeChunkSamples {
		end := min(start+encodeChunkSamples, len(samples))
		n := 0
		for _, s := range samples[start:end] {
			binary.LittleEndian.PutUint16(buf[n:], uint16(quantize(s)))
			n += 2
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return fmt.Errorf("%w: %s", models.ErrAudioWrite, err)
		}
	}
	return nil
}

// EncodeWAVFile encodes to path and reports the file size in bytes.
func EncodeWAVFile(path string, samples []float32, sampleRate int) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", models.ErrAudioWrite, err)
	}
	bw := bufio.NewWriter(f)
	if err := EncodeWAV(bw, samples, sampleRate); err != nil {
		f.Close()
		os.Remove(path)
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(path)
		return 0, fmt.Errorf("%w: %s", models.ErrAudioWrite, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("%w: %s", models.ErrAudioWrite, err)
	}
	return int64(wavHeaderSize + len(samples)*2), nil
}

func quantize(s float32) int16 {
	if s > 1 {
		s = 1
	}
	if s < -1 {
		s = -1
	}
	if s < 0 {
		return int16(s * 32768)
	}
	return int16(s * 32767)
}

func writeWavHeader(w io.Writer, dataSize, sampleRate int) error {
	header := make([]byte, wavHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate)*1*(16/8))
	binary.LittleEndian.PutUint16(header[32:34], 1*(16/8))
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))
	_, err := w.Write(header)
	return err
}
