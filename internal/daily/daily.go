package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"time"

	"github.com/robalobadob/wordgame/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Picker chooses the same answer for everyone on a given UTC date and word
// length. Restarting a daily round therefore replays the same word.
type Picker struct {
	Salt string
	Now  func() time.Time
}

// NewPicker returns a Picker on the wall clock.
func NewPicker(salt string) *Picker {
	return &Picker{Salt: salt, Now: time.Now}
}

// Pick implements game.Picker.
func (p *Picker) Pick(d game.Dictionary) (string, bool) {
	if d == nil || d.Len() == 0 {
		return "", false
	}
	// salt per length so the 5- and 6-letter words are picked independently
	salt := p.Salt + "/" + strconv.Itoa(d.WordLength())
	return d.At(WordIndex(p.now(), salt, d.Len())), true
}

// Today is the current date key.
func (p *Picker) Today() string { return DateKey(p.now()) }

func (p *Picker) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
