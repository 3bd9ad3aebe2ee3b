// Package alert plays short audio chimes for timer and probe events.
// Tones are synthesized in-process, so no audio assets ship with the
// binary.
package alert

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

const (
	sampleRate   = 24000
	channelCount = 1
)

// Chimer plays attention tones through the system audio device.
type Chimer struct {
	ctx *oto.Context
	log *logger.Logger

	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewChimer initializes the system audio context. Returns an error if
// the audio device is unavailable, in which case callers fall back to
// terminal-only notifications.
func NewChimer(log *logger.Logger) (*Chimer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("chimer initialized (rate=%d, channels=%d)", sampleRate, channelCount)
	return &Chimer{ctx: ctx, log: log}, nil
}

// Chime plays the standard two-note tone. Used when a timer finishes.
// Blocks until playback completes or Stop is called.
func (c *Chimer) Chime() error {
	return c.play(tone(880, 180*time.Millisecond), tone(1175, 260*time.Millisecond))
}

// UrgentChime plays a rising three-note tone. Used for probe state
// alerts that need the cook's hands out of the dough.
func (c *Chimer) UrgentChime() error {
	return c.play(
		tone(784, 140*time.Millisecond),
		tone(988, 140*time.Millisecond),
		tone(1319, 320*time.Millisecond),
	)
}

func (c *Chimer) play(notes ...[]byte) error {
	pcm := bytes.Join(notes, silence(40*time.Millisecond))

	player := c.ctx.NewPlayer(bytes.NewReader(pcm))

	c.mu.Lock()
	c.active = player
	c.mu.Unlock()

	player.Play()
	c.log.Debug("chimer: playing %d bytes of PCM", len(pcm))

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()

	return player.Close()
}

// Stop interrupts the current chime, if any. Safe to call concurrently
// and when nothing is playing.
func (c *Chimer) Stop() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	if active != nil {
		active.Pause()
		c.log.Debug("chimer: interrupted")
	}
}

// tone synthesizes a sine note as signed 16-bit LE PCM, with a short
// linear fade at both ends to avoid clicks.
func tone(freqHz float64, d time.Duration) []byte {
	samples := int(float64(sampleRate) * d.Seconds())
	fade := sampleRate / 100 // 10ms
	if fade > samples/2 {
		fade = samples / 2
	}

	out := make([]byte, 0, samples*2)
	for i := 0; i < samples; i++ {
		v := math.Sin(2 * math.Pi * freqHz * float64(i) / sampleRate)

		gain := 0.4
		if i < fade {
			gain *= float64(i) / float64(fade)
		} else if samples-i < fade {
			gain *= float64(samples-i) / float64(fade)
		}

		out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*gain*math.MaxInt16)))
	}
	return out
}

func silence(d time.Duration) []byte {
	return make([]byte, int(float64(sampleRate)*d.Seconds())*2)
}
