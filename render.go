package tack

import (
	"bytes"
	"encoding/binary"
	"time"

	intclick "github.com/cbegin/tack-go/internal/click"
)

// clickTail is rendered after the last tick so its click can ring out.
const clickTail = 100 * time.Millisecond

// RenderClickTrack renders bars bars of cfg's pattern as interleaved stereo
// frames. Clicks land on exact sample offsets. Count-in, ramps, mute windows
// and the timer belong to live playback and are not rendered.
func RenderClickTrack(cfg Config, sampleRate int, bars int) []float32 {
	if sampleRate <= 0 || bars <= 0 {
		return nil
	}
	cfg = cfg.Normalize()
	synth := intclick.New(sampleRate)
	synth.SetSound(intclick.ParseSound(cfg.Sound))
	synth.SetGainDB(float64(cfg.Gain))

	step := cfg.SubdivisionInterval()
	frameAt := func(i int64) int {
		return int(int64(step) * i * int64(sampleRate) / int64(time.Second))
	}
	ticks := int64(bars) * int64(len(cfg.Beats)) * int64(len(cfg.Subdivisions))
	frames := frameAt(ticks) + int(int64(clickTail)*int64(sampleRate)/int64(time.Second))
	out := make([]float32, frames*2)

	pos := 0
	for i := int64(0); i < ticks; i++ {
		at := frameAt(i)
		synth.Process(out[pos*2 : at*2])
		pos = at
		synth.Trigger(accentOf(tickAt(i, cfg.Beats, cfg.Subdivisions).Type))
	}
	synth.Process(out[pos*2:])
	return out
}

type wavHeader struct {
	RIFF          [4]byte
	ChunkSize     uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

const wavFormatFloat = 3

// EncodeWAVFloat32LE wraps interleaved float32 samples in a WAV container.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := uint32(len(samples) * 4)
	h := wavHeader{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		Format:        wavFormatFloat,
		Channels:      uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * 4),
		BlockAlign:    uint16(channels * 4),
		BitsPerSample: 32,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}
	var buf bytes.Buffer
	buf.Grow(44 + int(dataSize))
	// Writes to a bytes.Buffer cannot fail.
	_ = binary.Write(&buf, binary.LittleEndian, h)
	_ = binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}
