package narration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

// HistoryWindow is how many past turns are quoted back to the model.
const HistoryWindow = 12

// TurnRequest is everything the story model needs to continue the story.
type TurnRequest struct {
	SessionID string
	Character game.Character
	Ledgers   *ledger.Store
	History   string
	Action    string
	Sounds    []string
	Ambient   []string
}

func (r TurnRequest) SystemPrompt() string {
	return buildSystemPrompt(r.Sounds, r.Ambient)
}

func (r TurnRequest) UserPrompt() string {
	var b strings.Builder
	c := r.Character
	store := r.Ledgers
	if store == nil {
		store = ledger.New(nil, "")
	}

	b.WriteString("PLAYER CHARACTER PROFILE:\n")
	fmt.Fprintf(&b, "- Name: %s\n", c.Name)
	fmt.Fprintf(&b, "- Gender: %s\n", c.Gender)
	fmt.Fprintf(&b, "- Background: %s\n", c.Background)
	fmt.Fprintf(&b, "- Awakened Flow Affinity: %s (Rarity: %s)\n", c.AwakenedAffinity, game.Rarity(c.AwakenedAffinity))
	fmt.Fprintf(&b, "- Dormant Flow Affinity: %s (Rarity: %s). The character is not yet aware of it; only hint at it.\n",
		c.DormantAffinity, game.Rarity(c.DormantAffinity))
	fmt.Fprintf(&b, "- Personality Scores: %s\n", compact(store.Vitals.Personality))
	fmt.Fprintf(&b, "- Vein Strain: %d, Echo Exposure: %d\n", store.Vitals.Strain, store.Vitals.Exposure)
	fmt.Fprintf(&b, "- Visual Mark: Mark on %s\n\n", c.VisualMark)

	fmt.Fprintf(&b, "CURRENT NARRATIVE ACT:\nAct %d.\n\n", store.Act)

	b.WriteString("CURRENT GAME STATE:\n")
	fmt.Fprintf(&b, "- Journal: %s\n", compact(store.Journal))
	fmt.Fprintf(&b, "- Faction Reputation: %s\n", compact(store.Reputation))
	fmt.Fprintf(&b, "- Known People: %s\n", compact(store.People))
	fmt.Fprintf(&b, "- Inventory: %s\n", compact(store.Inventory))
	fmt.Fprintf(&b, "- Known Locations: %s\n\n", compact(store.World))

	b.WriteString("STORY SO FAR:\n")
	if strings.TrimSpace(r.History) == "" {
		b.WriteString("The story is just beginning.")
	} else {
		b.WriteString(r.History)
	}
	b.WriteString("\n\nPLAYER'S ACTION:\n")
	b.WriteString(r.Action)
	b.WriteString("\n\nGenerate the next part of the story, following the streaming format exactly.")
	return b.String()
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func buildSystemPrompt(sounds, ambient []string) string {
	return fmt.Sprintf(`You are the narrator of a grim political fantasy in which the Awakened carry the Flow in their veins.

Write 2-4 paragraphs of second-person, present-tense narrative describing what happens as a result of the player's action.

STREAMING FORMAT:
1. Stream the narrative as plain prose.
2. Then output the marker %s on its own line.
3. Then output exactly one JSON object and nothing else:
{
  "imagePrompt": "concise scene prompt that includes the player character",
  "choices": [{"text": "...", "lean": "Empathy|Cunning|Resolve|Lore|Neutral"}],
  "gameOver": false,
  "endingDescription": "",
  "allowCustomAction": true,
  "directives": [ ... ]
}

DIRECTIVES (each an object with a "kind"):
- {"kind":"journal-update","thread":"...","entry":"first-person entry","status":"new|updated|completed"}
- {"kind":"reputation-update","faction":"...","change":1,"reason":"..."}
- {"kind":"location-update","name":"...","description":"...","x":0-100,"y":0-100}
- {"kind":"act-transition","newAct":2,"reason":"..."}
- {"kind":"person-update","name":"...","description":"...","faction":"...","role":"...","disposition":"...","motivation":"...","status":"new|updated"}
- {"kind":"item-update","action":"add|remove","name":"...","description":"...","category":"Key Item|Consumable|Document"}
- {"kind":"stats-update","strainChange":0,"exposureChange":0,"personality":{"Lore":1},"reason":"..."}
- {"kind":"knowledge-unlock","category":"faction|nation|affinity","key":"..."}
- {"kind":"sound-cue","name":"one of: %s"}
- {"kind":"ambient-cue","track":"one of: %s"}
- {"kind":"visual-effect-cue","intensity":"subtle|powerful"}

Only emit directives for changes that actually happened in the narrative. Provide 4 distinct choices.`,
		Marker, strings.Join(sounds, ", "), strings.Join(ambient, ", "))
}
