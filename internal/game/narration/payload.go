package narration

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
)

// Payload is the structured part of a turn.
type Payload struct {
	Scene      game.Scene
	Directives directive.List
}

// legacyField maps a single-update field of the object form onto a directive
// kind. Fields are converted in this order, after the explicit list.
type legacyField struct {
	name    string
	kind    directive.Kind
	renames map[string]string
	scalar  string
}

var legacyFields = []legacyField{
	{name: "journalUpdate", kind: directive.KindJournal},
	{name: "reputationUpdate", kind: directive.KindReputation},
	{name: "locationUpdate", kind: directive.KindLocation},
	{name: "actTransition", kind: directive.KindAct},
	{name: "npcUpdate", kind: directive.KindPerson},
	{name: "itemUpdate", kind: directive.KindItem, renames: map[string]string{"itemName": "name"}},
	{name: "characterStatsUpdate", kind: directive.KindStats, renames: map[string]string{
		"veinStrainChange": "strainChange",
		"echoLevelChange":  "exposureChange",
	}},
	{name: "loreUnlock", kind: directive.KindKnowledge, renames: map[string]string{"type": "category"}},
	{name: "soundEffect", kind: directive.KindSound, scalar: "name"},
	{name: "ambientTrack", kind: directive.KindAmbient, scalar: "track"},
	{name: "magicEffect", kind: directive.KindVisualEffect},
}

// ParsePayload parses the text that followed the marker.
func ParsePayload(tail string) (*Payload, error) {
	body, err := extractJSON(tail)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(body)) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrMalformedDirectiveStream)
	}

	if body[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal([]byte(body), &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDirectiveStream, err)
		}
		return &Payload{Directives: decodeAll(raws)}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDirectiveStream, err)
	}
	return fromObject(fields), nil
}

// extractJSON prefers a ```json fence. Otherwise it takes the span from the
// first opening bracket to the last matching closing one, trying the object
// and array spans in the order they open and keeping the first that is valid
// JSON.
func extractJSON(tail string) (string, error) {
	if strings.TrimSpace(tail) == "" {
		return "", fmt.Errorf("%w: no payload after marker", ErrMalformedDirectiveStream)
	}

	if _, rest, ok := strings.Cut(tail, "```json"); ok {
		if body, _, closed := strings.Cut(rest, "```"); closed {
			if body = strings.TrimSpace(body); body != "" {
				return body, nil
			}
		}
	}

	type span struct {
		start int
		body  string
	}
	var spans []span
	opened := false
	for _, pair := range [...]string{"{}", "[]"} {
		start := strings.IndexByte(tail, pair[0])
		if start < 0 {
			continue
		}
		opened = true
		if end := strings.LastIndexByte(tail, pair[1]); end > start {
			spans = append(spans, span{start: start, body: tail[start : end+1]})
		}
	}
	switch {
	case len(spans) == 0 && opened:
		return "", fmt.Errorf("%w: unterminated JSON after marker", ErrMalformedDirectiveStream)
	case len(spans) == 0:
		return "", fmt.Errorf("%w: no JSON found after marker", ErrMalformedDirectiveStream)
	}

	slices.SortFunc(spans, func(a, b span) int { return a.start - b.start })
	for _, sp := range spans {
		if json.Valid([]byte(sp.body)) {
			return sp.body, nil
		}
	}
	return spans[0].body, nil
}

func decodeAll(raws []json.RawMessage) directive.List {
	out := make(directive.List, 0, len(raws))
	for _, raw := range raws {
		out = append(out, directive.Decode(raw))
	}
	return out
}

// fromObject reads the scene fields leniently: a field of the wrong type is
// left at its zero value rather than failing the whole turn.
func fromObject(fields map[string]json.RawMessage) *Payload {
	p := &Payload{}
	s := &p.Scene
	lenient(fields["imagePrompt"], &s.ImagePrompt)
	s.Choices = choices(fields["choices"])
	lenient(fields["gameOver"], &s.GameOver)
	lenient(fields["endingDescription"], &s.EndingDescription)
	lenient(fields["allowCustomAction"], &s.AllowCustomAction)

	if raw, ok := fields["directives"]; ok && !isNull(raw) {
		var raws []json.RawMessage
		if err := json.Unmarshal(raw, &raws); err != nil {
			p.Directives = append(p.Directives, directive.Invalid{Reason: "directives is not a list"})
		} else {
			p.Directives = decodeAll(raws)
		}
	}

	for _, lf := range legacyFields {
		raw, ok := fields[lf.name]
		if !ok || isNull(raw) {
			continue
		}
		p.Directives = append(p.Directives, lf.convert(raw))
	}
	return p
}

func (lf legacyField) convert(raw json.RawMessage) directive.Directive {
	obj := map[string]json.RawMessage{}
	if lf.scalar != "" {
		obj[lf.scalar] = raw
	} else if err := json.Unmarshal(raw, &obj); err != nil {
		return directive.Invalid{Declared: lf.kind, Reason: fmt.Sprintf("%s is not an object", lf.name)}
	}

	for from, to := range lf.renames {
		if v, ok := obj[from]; ok {
			obj[to] = v
			delete(obj, from)
		}
	}
	kind, _ := json.Marshal(lf.kind)
	obj["kind"] = kind

	tagged, err := json.Marshal(obj)
	if err != nil {
		return directive.Invalid{Declared: lf.kind, Reason: err.Error()}
	}
	return directive.Decode(tagged)
}

// lenient sets *dst only when raw decodes cleanly as a T.
func lenient[T any](raw json.RawMessage, dst *T) {
	if len(raw) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// choices keeps the well-formed entries of the choice list. A choice without
// text could only submit an empty action, so it is dropped too.
func choices(raw json.RawMessage) []game.Choice {
	var raws []json.RawMessage
	lenient(raw, &raws)
	var out []game.Choice
	for _, r := range raws {
		var c game.Choice
		lenient(r, &c)
		if strings.TrimSpace(c.Text) != "" {
			out = append(out, c)
		}
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
