package directive

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type envelope struct {
	Kind Kind `json:"kind"`
}

// Decode turns one tagged payload entry into a directive. It never fails:
// anything unusable comes back as Invalid with the reason attached.
func Decode(raw json.RawMessage) Directive {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Invalid{Reason: fmt.Sprintf("entry is not an object: %v", err)}
	}

	switch env.Kind {
	case KindJournal:
		return decodeAs[JournalUpdate](raw)
	case KindReputation:
		return decodeAs[ReputationUpdate](raw)
	case KindLocation:
		return decodeAs[LocationUpdate](raw)
	case KindAct:
		return decodeAs[ActTransition](raw)
	case KindPerson:
		return decodeAs[PersonUpdate](raw)
	case KindItem:
		return decodeAs[ItemUpdate](raw)
	case KindStats:
		return decodeAs[StatsUpdate](raw)
	case KindKnowledge:
		return decodeAs[KnowledgeUnlock](raw)
	case KindSound:
		return decodeAs[SoundCue](raw)
	case KindAmbient:
		return decodeAs[AmbientCue](raw)
	case KindVisualEffect:
		return decodeAs[VisualEffectCue](raw)
	case KindInvalid:
		var d Invalid
		if err := json.Unmarshal(raw, &d); err != nil {
			return Invalid{Declared: KindInvalid, Reason: err.Error()}
		}
		return d
	case "":
		return Invalid{Reason: "entry has no kind"}
	}
	return Invalid{Declared: env.Kind, Reason: fmt.Sprintf("unknown kind %q", env.Kind)}
}

func decodeAs[T Directive](raw json.RawMessage) Directive {
	var d T
	if err := json.Unmarshal(raw, &d); err != nil {
		return Invalid{Declared: d.Kind(), Reason: fmt.Sprintf("%s: %v", d.Kind(), err)}
	}
	if err := d.Validate(); err != nil {
		return Invalid{Declared: d.Kind(), Reason: err.Error()}
	}
	return d
}

// Encode renders d in the same tagged form Decode accepts.
func Encode(d Directive) (json.RawMessage, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", d.Kind(), err)
	}
	kind, _ := json.Marshal(d.Kind())

	var buf bytes.Buffer
	buf.WriteString(`{"kind":`)
	buf.Write(kind)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// List is an ordered batch that survives a JSON round trip.
type List []Directive

func (l List) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(l))
	for _, d := range l {
		raw, err := Encode(d)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return json.Marshal(raws)
}

func (l *List) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("failed to decode directive list: %w", err)
	}
	out := make(List, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Decode(raw))
	}
	*l = out
	return nil
}
