package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	ErrUnsupportedWAV = errors.New("unsupported wav format")
	ErrInvalidWAV     = errors.New("invalid wav file")
)

type WAVInfo struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BitsPerSample uint16
	DataSize      uint32
	// Streamed is set when the header's data size was a placeholder or
	// overran the file and DataSize was taken from the bytes present.
	Streamed bool
}

// DurationMS is the data chunk length in whole milliseconds.
func (w WAVInfo) DurationMS() int64 {
	if w.ByteRate == 0 {
		return 0
	}
	return int64(w.DataSize) * 1000 / int64(w.ByteRate)
}

// ProbeWAV reads the RIFF header of a PCM or IEEE float WAV file without
// loading the sample data.
func ProbeWAV(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return WAVInfo{}, fmt.Errorf("stat wav: %w", err)
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return WAVInfo{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		return WAVInfo{}, fmt.Errorf("read wav header: %w", err)
	}

	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return WAVInfo{}, ErrInvalidWAV
	}

	var (
		info    WAVInfo
		hasFmt  bool
		hasData bool
	)

	for !hasData {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(f, chunkHeader); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return WAVInfo{}, fmt.Errorf("read wav chunk header: %w", err)
		}

		chunkID := string(chunkHeader[:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		skip := int64(chunkSize)
		if chunkSize%2 != 0 {
			skip++
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return WAVInfo{}, ErrInvalidWAV
			}

			buf := make([]byte, skip)
			if _, err := io.ReadFull(f, buf); err != nil {
				return WAVInfo{}, fmt.Errorf("read wav fmt chunk: %w", err)
			}

			info.AudioFormat = binary.LittleEndian.Uint16(buf[0:2])
			info.Channels = binary.LittleEndian.Uint16(buf[2:4])
			info.SampleRate = binary.LittleEndian.Uint32(buf[4:8])
			info.ByteRate = binary.LittleEndian.Uint32(buf[8:12])
			info.BitsPerSample = binary.LittleEndian.Uint16(buf[14:16])
			hasFmt = true
		case "data":
			offset, err := f.Seek(0, io.SeekCurrent)
			if err != nil {
				return WAVInfo{}, fmt.Errorf("seek wav data chunk: %w", err)
			}
			info.DataSize, info.Streamed = dataSizeFor(chunkSize, stat.Size()-offset)
			hasData = true
		default:
			if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
				return WAVInfo{}, fmt.Errorf("seek wav chunk %s: %w", chunkID, err)
			}
		}
	}

	if !hasFmt || !hasData {
		return WAVInfo{}, ErrInvalidWAV
	}

	if err := validateFormat(info.AudioFormat, info.BitsPerSample); err != nil {
		return WAVInfo{}, err
	}
	if info.ByteRate == 0 {
		return WAVInfo{}, fmt.Errorf("%w: zero byte rate", ErrInvalidWAV)
	}

	return info, nil
}

// dataSizeFor trusts the declared size only when it is non-zero and fits in
// the bytes remaining after the data chunk header. Writers that stream to a
// pipe leave 0 or 0xFFFFFFFF there.
func dataSizeFor(declared uint32, remaining int64) (uint32, bool) {
	if remaining < 0 {
		remaining = 0
	}
	if declared != 0 && int64(declared) <= remaining {
		return declared, false
	}
	if remaining > math.MaxUint32 {
		remaining = math.MaxUint32
	}
	return uint32(remaining), true
}

func validateFormat(audioFormat, bitsPerSample uint16) error {
	switch audioFormat {
	case 1:
		switch bitsPerSample {
		case 8, 16, 24, 32:
			return nil
		}
	case 3:
		switch bitsPerSample {
		case 32, 64:
			return nil
		}
	}
	return ErrUnsupportedWAV
}
