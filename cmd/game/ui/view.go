package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
)

var (
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	choiceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	toastStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	inputHeight := 3
	chatHeight := m.height - inputHeight
	contentWidth := m.width - 4

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(m.width - 4)

	chatPanel := lipgloss.NewStyle().
		Width(m.width).
		Height(chatHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1)

	lines := m.storyLines(contentWidth)

	maxLines := max(chatHeight-4, 1)
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	var chatContent strings.Builder
	for i := len(lines); i < maxLines; i++ {
		chatContent.WriteString("\n")
	}
	chatContent.WriteString(strings.Join(lines, "\n"))

	chat := chatPanel.Render(chatContent.String())
	input := inputStyle.Render(m.input + "│")
	return chat + "\n" + input
}

func (m Model) storyLines(width int) []string {
	var lines []string
	add := func(style lipgloss.Style, text string) {
		for _, l := range strings.Split(wrapAndIndent(text, width, " "), "\n") {
			lines = append(lines, style.Render(l))
		}
	}

	busy := m.snap.Status.Busy()
	for i, turn := range m.snap.History {
		add(userStyle, "> "+turn.Action)
		narrative := turn.Narrative
		if busy && i == len(m.snap.History)-1 && m.narrative != "" {
			narrative = m.narrative
		}
		for _, para := range strings.Split(narrative, "\n") {
			if strings.TrimSpace(para) != "" {
				add(messageStyle, para)
			}
		}
		lines = append(lines, "")
	}

	if busy || m.loading {
		add(loadingStyle, getLoadingAnimation(m.animationFrame)+" "+m.snap.Status.Label())
		return lines
	}

	if m.snap.Error != "" {
		add(errorStyle, m.snap.Error)
		add(dimStyle, "Press ctrl+r to try again.")
		lines = append(lines, "")
	}

	for _, u := range m.toasts {
		if u.IsWarning() {
			add(warnStyle, "! "+u.Message)
			continue
		}
		add(toastStyle, fmt.Sprintf("%s %s", ledgerIcon(u.Ledger), u.Message))
	}
	if m.cue != "" {
		add(dimStyle, m.cue)
	}

	scene := m.snap.Scene
	if scene.GameOver {
		add(errorStyle, "THE END")
		if scene.EndingDescription != "" {
			add(messageStyle, scene.EndingDescription)
		}
		return lines
	}
	if len(scene.Choices) > 0 {
		lines = append(lines, "")
		for i, c := range scene.Choices {
			add(choiceStyle, fmt.Sprintf("%d. %s", i+1, c.Text))
		}
		if scene.AllowCustomAction {
			add(dimStyle, "...or describe your own action.")
		}
	}
	if len(scene.Image) > 0 {
		add(dimStyle, "[an illustration of this scene is ready]")
	}
	return lines
}

func ledgerIcon(l events.Ledger) string {
	switch l {
	case events.LedgerJournal:
		return "✎"
	case events.LedgerReputation:
		return "⚖"
	case events.LedgerInventory:
		return "◆"
	case events.LedgerWorld:
		return "⌖"
	case events.LedgerAct:
		return "❖"
	}
	return "•"
}

func wrapAndIndent(text string, width int, indent string) string {
	if len(text) <= width {
		return indent + text
	}

	var result strings.Builder
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + text
	}

	currentLine := indent + words[0]

	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result.WriteString(currentLine + "\n")
			currentLine = indent + word
		}
	}

	result.WriteString(currentLine)
	return result.String()
}

func getLoadingAnimation(frame int) string {
	arc := []string{"◜", "◠", "◝", "◞", "◡", "◟"}
	return arc[frame%len(arc)]
}
