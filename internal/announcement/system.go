package announcement

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"railannouncements/internal/audio"
)

type Kind string

const (
	KindStation Kind = "station"
	KindTrain   Kind = "train"
)

var (
	ErrUnknownSystem = errors.New("unknown announcement system")
	ErrUnknownTab    = errors.New("unknown announcement tab")
)

// InputError is a recoverable problem with the options a user picked. Message
// is safe to show to them as-is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func inputErrorf(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

func missingAudio(fileID string) error {
	return inputErrorf("Unfortunately, we don't have the audio needed for this (%s).", fileID)
}

// System builds announcement sequences for one operator's voice and rules.
type System interface {
	ID() string
	Name() string
	Kind() Kind
	// FilePrefix is the directory under /audio holding the system's clips.
	FilePrefix() string
	Tabs() []string
	Build(tabID string, options json.RawMessage) (audio.Sequence, error)
}

type builder func(options json.RawMessage) (audio.Sequence, error)

// base carries the identity shared by every system plus its ordered tabs.
type base struct {
	id     string
	name   string
	kind   Kind
	prefix string

	tabOrder []string
	tabs     map[string]builder
}

func (b *base) ID() string         { return b.id }
func (b *base) Name() string       { return b.name }
func (b *base) Kind() Kind         { return b.kind }
func (b *base) FilePrefix() string { return b.prefix }
func (b *base) Tabs() []string     { return slices.Clone(b.tabOrder) }

func (b *base) handle(tabID string, fn builder) {
	if b.tabs == nil {
		b.tabs = make(map[string]builder)
	}
	b.tabOrder = append(b.tabOrder, tabID)
	b.tabs[tabID] = fn
}

func (b *base) Build(tabID string, options json.RawMessage) (audio.Sequence, error) {
	fn, ok := b.tabs[tabID]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownTab, b.id, tabID)
	}
	return fn(options)
}

// tab adapts a typed option handler to a builder.
func tab[T any](fn func(T) (audio.Sequence, error)) builder {
	return func(raw json.RawMessage) (audio.Sequence, error) {
		var opts T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &opts); err != nil {
				return nil, inputErrorf("invalid announcement options: %v", err)
			}
		}
		return fn(opts)
	}
}

// CallingPoint is one station picked in the calling-at selector. Saved
// presets store objects; a bare CRS string is accepted too.
type CallingPoint struct {
	CrsCode string `json:"crsCode"`
	Name    string `json:"name,omitempty"`
}

func (c *CallingPoint) UnmarshalJSON(b []byte) error {
	var crs string
	if err := json.Unmarshal(b, &crs); err == nil {
		*c = CallingPoint{CrsCode: crs}
		return nil
	}
	type plain CallingPoint
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = CallingPoint(p)
	return nil
}

func crsCodes(points []CallingPoint) []string {
	codes := make([]string, len(points))
	for i, p := range points {
		codes[i] = p.CrsCode
	}
	return codes
}

// stationSet is an immutable membership table for recorded station clips.
type stationSet map[string]struct{}

func newStationSet(codes ...string) stationSet {
	s := make(stationSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s stationSet) has(code string) bool {
	_, ok := s[code]
	return ok
}
