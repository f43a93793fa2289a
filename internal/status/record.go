package status

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	TooltipRecording    = "Recording..."
	TooltipTranscribing = "Transcribing..."
	TooltipIdle         = "Voxtype ready - hold hotkey to record"
	TooltipStopped      = "Voxtype not running"
	TooltipUnknown      = "Unknown state"

	tooltipSerializationError = "Serialization error"
)

// Record is the wire form of a status observation. Field order is part of
// the contract: text, alt, class, tooltip, then the optional fields.
type Record struct {
	Text    string   `json:"text"`
	Alt     string   `json:"alt"`
	Class   string   `json:"class"`
	Tooltip string   `json:"tooltip"`
	Level   *float64 `json:"level,omitempty"`
	Model   *string  `json:"model,omitempty"`
	Device  *string  `json:"device,omitempty"`
	Backend *string  `json:"backend,omitempty"`
}

// Formatter renders snapshots into records using a resolved icon set.
type Formatter struct {
	Icons Icons
}

// NewFormatter returns a formatter for the given icons.
func NewFormatter(icons Icons) Formatter {
	return Formatter{Icons: icons}
}

// BaseTooltip returns the tooltip for s without extended details.
func BaseTooltip(s State) string {
	switch s {
	case Recording:
		return TooltipRecording
	case Transcribing:
		return TooltipTranscribing
	case Idle:
		return TooltipIdle
	case Stopped:
		return TooltipStopped
	default:
		return TooltipUnknown
	}
}

// Record builds the wire record for snap. Level is only carried while
// recording; model, device and backend appear together whenever extended
// info is present, whatever the state.
func (f Formatter) Record(snap Snapshot) Record {
	state := string(snap.State)
	rec := Record{
		Text:    f.Icons.For(snap.State),
		Alt:     state,
		Class:   state,
		Tooltip: BaseTooltip(snap.State),
	}
	if snap.State == Recording && snap.Level != nil {
		level := *snap.Level
		rec.Level = &level
	}
	if ext := snap.Extended; ext != nil {
		rec.Tooltip = fmt.Sprintf("%s\nModel: %s\nDevice: %s\nBackend: %s", rec.Tooltip, ext.Model, ext.Device, ext.Backend)
		model, device, backend := ext.Model, ext.Device, ext.Backend
		rec.Model = &model
		rec.Device = &device
		rec.Backend = &backend
	}
	return rec
}

// JSON renders snap as a single-line JSON object. It always returns valid
// JSON; encoding failures degrade to a minimal four-field record.
func (f Formatter) JSON(snap Snapshot) string {
	line, err := encodeRecord(f.Record(snap))
	if err != nil {
		return fallbackJSON(string(snap.State))
	}
	return line
}

// Text renders snap for the plain text output format.
func (f Formatter) Text(snap Snapshot) string {
	return string(snap.State)
}

func encodeRecord(rec Record) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func fallbackJSON(state string) string {
	quoted := quoteJSON(state)
	return `{"text":"","alt":` + quoted + `,"class":` + quoted + `,"tooltip":"` + tooltipSerializationError + `"}`
}

// quoteJSON produces a JSON string literal without going through the encoder.
func quoteJSON(s string) string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20:
			b.WriteString(`\u00`)
			b.WriteByte(hex[r>>4])
			b.WriteByte(hex[r&0xf])
		case r == utf8.RuneError && size == 1:
			b.WriteString(`�`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// StoppedLine is the minimal record injected by the status bus when the
// upstream follower exits.
const StoppedLine = `{"class":"stopped"}`

// ParseLine decodes a status stream line. Consumers only rely on class and
// level, so partial records such as StoppedLine decode successfully.
func ParseLine(line string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return Record{}, fmt.Errorf("decode status line: %w", err)
	}
	return rec, nil
}
