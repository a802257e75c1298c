package audio

import (
	"regexp"
	"strings"
)

// Token is one pre-recorded clip plus the silence to insert before it.
type Token struct {
	ID           string `json:"id"`
	DelayStartMs int    `json:"delayStartMs,omitempty"`
}

// Sequence is an ordered playback list. Built fresh for every announcement.
type Sequence []Token

// File is a Token resolved to the URL the player fetches.
type File struct {
	URL          string `json:"url"`
	DelayStartMs int    `json:"delayStartMs,omitempty"`
}

// T wraps a bare clip id.
func T(id string) Token {
	return Token{ID: id}
}

// D wraps a clip id with a start delay.
func D(id string, delayMs int) Token {
	return Token{ID: id, DelayStartMs: delayMs}
}

// Of builds a sequence of bare clip ids.
func Of(ids ...string) Sequence {
	seq := make(Sequence, 0, len(ids))
	for _, id := range ids {
		seq = append(seq, T(id))
	}
	return seq
}

// IDs returns the clip ids in playback order.
func (s Sequence) IDs() []string {
	ids := make([]string, len(s))
	for i, t := range s {
		ids[i] = t.ID
	}
	return ids
}

// Files resolves every token to /audio/<prefix>/<id>.mp3, where dots in the
// id become path separators.
func (s Sequence) Files(prefix string) []File {
	files := make([]File, len(s))
	for i, t := range s {
		files[i] = File{
			URL:          "/audio/" + prefix + "/" + strings.ReplaceAll(t.ID, ".", "/") + ".mp3",
			DelayStartMs: t.DelayStartMs,
		}
	}
	return files
}

// PluraliseOptions controls how a list is joined into "X, Y and Z".
type PluraliseOptions struct {
	// AndID is the clip inserted before the final item. Defaults to "and".
	AndID string
	// Prefix is prepended to every item id.
	Prefix string
	// FinalPrefix replaces Prefix on the last item when set.
	FinalPrefix string

	FirstItemDelayMs  int
	BeforeItemDelayMs int
	BeforeAndDelayMs  int
	AfterAndDelayMs   int
}

// Pluralise emits items in input order with an "and" clip injected before the
// last one. A single item comes back on its own with no delay; an empty list
// yields an empty sequence.
func Pluralise(items []string, opts PluraliseOptions) Sequence {
	andID := opts.AndID
	if andID == "" {
		andID = "and"
	}
	finalPrefix := opts.FinalPrefix
	if finalPrefix == "" {
		finalPrefix = opts.Prefix
	}

	switch len(items) {
	case 0:
		return Sequence{}
	case 1:
		return Sequence{T(finalPrefix + items[0])}
	}

	seq := make(Sequence, 0, len(items)+1)
	last := len(items) - 1

	for i, item := range items[:last] {
		delay := opts.BeforeItemDelayMs
		if i == 0 {
			delay = opts.FirstItemDelayMs
		}
		seq = append(seq, D(opts.Prefix+item, delay))
	}

	lastDelay := opts.BeforeItemDelayMs
	if opts.AfterAndDelayMs > 0 {
		lastDelay = opts.AfterAndDelayMs
	}

	seq = append(seq,
		D(andID, opts.BeforeAndDelayMs),
		D(finalPrefix+items[last], lastDelay),
	)
	return seq
}

// MultiLingual plays the sequence once in the primary language and again in
// the secondary one. Ids are prefixed with the language code and the first
// secondary-language clip waits gapMs.
func MultiLingual(seq Sequence, primary, secondary string, gapMs int) Sequence {
	if len(seq) == 0 {
		return Sequence{}
	}

	out := make(Sequence, 0, len(seq)*2)
	for _, t := range seq {
		out = append(out, Token{ID: primary + "." + t.ID, DelayStartMs: t.DelayStartMs})
	}
	for i, t := range seq {
		delay := t.DelayStartMs
		if i == 0 {
			delay = gapMs
		}
		out = append(out, Token{ID: secondary + "." + t.ID, DelayStartMs: delay})
	}
	return out
}

var slugPattern = regexp.MustCompile(`[^a-z .&]`)

// Slugify turns free text into a clip id for systems that record clips by
// display name rather than code.
func Slugify(text string) string {
	return slugPattern.ReplaceAllString(strings.ToLower(text), "")
}
