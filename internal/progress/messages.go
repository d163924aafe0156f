// Package progress owns the status text shown to a user while a generation
// is outstanding. Messages form a fixed ordered sequence per locale: the
// first entry is emitted before the provider call, intermediate entries one
// per poll tick, and the last entry is reserved for completion.
package progress

import "golang.org/x/text/language"

var sequences = map[string][]string{
	"en": {
		"Preparing your video request...",
		"Sending your prompt to the model...",
		"Dreaming up the scenes...",
		"Rendering the first frames...",
		"Adding motion and light...",
		"Polishing the details...",
		"Almost there, hang tight...",
		"Your video is ready!",
	},
	"id": {
		"Menyiapkan permintaan video Anda...",
		"Mengirim prompt ke model...",
		"Merancang adegan...",
		"Merender frame pertama...",
		"Menambahkan gerakan dan cahaya...",
		"Menyempurnakan detail...",
		"Hampir selesai, mohon tunggu...",
		"Video Anda sudah siap!",
	},
}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Indonesian,
})

// Sequence returns the message list for the given locale, defaulting to
// English. Ordering and length are identical across locales.
func Sequence(locale string) []string {
	if locale != "" {
		if tag, err := language.Parse(locale); err == nil {
			if matched, _, conf := matcher.Match(tag); conf > language.No {
				base, _ := matched.Base()
				if seq, ok := sequences[base.String()]; ok {
					return seq
				}
			}
		}
	}
	return sequences["en"]
}

// Cursor walks a message sequence without ever wrapping: intermediate
// advances clamp at the second-to-last entry so a long poll loop repeats the
// same message instead of growing, and the final entry is only handed out by
// Final.
type Cursor struct {
	steps []string
	idx   int
}

func NewCursor(steps []string) *Cursor {
	return &Cursor{steps: steps}
}

// Current returns the message at the cursor without advancing.
func (c *Cursor) Current() string {
	if len(c.steps) == 0 {
		return ""
	}
	return c.steps[c.idx]
}

// Advance moves the cursor one intermediate step forward, clamped to the
// second-to-last entry, and returns the message there.
func (c *Cursor) Advance() string {
	if len(c.steps) == 0 {
		return ""
	}
	if c.idx < len(c.steps)-2 {
		c.idx++
	}
	return c.steps[c.idx]
}

// Final returns the completion message.
func (c *Cursor) Final() string {
	if len(c.steps) == 0 {
		return ""
	}
	return c.steps[len(c.steps)-1]
}
