package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/orchestrator"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		return m.handleStatus(msg)
	case narrativeMsg:
		m.narrative = msg.narrative
		return m, nil
	case sceneMsg:
		m.snap.Scene = msg.scene
		return m, nil
	case updatesMsg:
		m.toasts = append(m.toasts, msg.updates...)
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}
		return m, nil
	case cueMsg:
		m.cue = msg.text
		return m, nil
	case turnDoneMsg:
		return m.handleTurnDone(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			return m, animationTimer()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleStatus(msg statusMsg) (tea.Model, tea.Cmd) {
	m.snap.Status = msg.status
	if msg.status == orchestrator.StatusStreamingNarrative {
		m.snap = m.game.Snapshot()
		m.narrative = ""
	}
	if !msg.status.Busy() {
		m.snap = m.game.Snapshot()
	}
	return m, nil
}

func (m Model) handleTurnDone(msg turnDoneMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.snap = m.game.Snapshot()
	m.narrative = ""
	if msg.err != nil {
		m.debugLogger.Printf("turn failed: %v", msg.err)
	}
	return m, nil
}

func (m Model) start(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	m.animationFrame = 0
	m.toasts = nil
	return m, tea.Batch(cmd, animationTimer())
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+r":
		if m.loading || m.snap.LastAction == "" || m.snap.Error == "" {
			return m, nil
		}
		return m.start(m.retry())

	case "enter":
		userInput := strings.TrimSpace(m.input)
		if userInput == "" || m.loading {
			return m, nil
		}
		m.input = ""

		if strings.HasPrefix(userInput, "/") {
			return m.handleCommand(userInput)
		}
		if n, err := strconv.Atoi(userInput); err == nil && n >= 1 && n <= len(m.snap.Scene.Choices) {
			userInput = m.snap.Scene.Choices[n-1].Text
		} else if len(m.snap.Scene.Choices) > 0 && !m.snap.Scene.AllowCustomAction {
			m.cue = "Pick one of the numbered choices."
			return m, nil
		}
		if m.snap.Scene.GameOver {
			return m, nil
		}
		return m.start(m.submit(userInput))

	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil

	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		case tea.KeySpace:
			m.input += " "
		}
		return m, nil
	}
}

func (m Model) handleCommand(cmd string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.ToLower(cmd))
	switch fields[0] {
	case "/narration":
		on := !m.snap.Narration
		if len(fields) > 1 {
			on = fields[1] == "on"
		}
		m.game.SetNarration(on)
		m.snap = m.game.Snapshot()
		m.cue = fmt.Sprintf("Narration %s", onOff(on))
	case "/help":
		m.cue = "Type an action or a choice number. /narration [on|off], ctrl+r retries, esc quits."
	default:
		m.cue = "Unknown command. Try /help"
	}
	return m, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
