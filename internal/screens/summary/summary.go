package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/screen"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/ui/components"
	"github.com/abhisek/recall/internal/ui/layout"
	"github.com/abhisek/recall/internal/ui/theme"
)

// maxMissedShown caps the missed-items list so the screen fits 24 rows.
const maxMissedShown = 8

// SummaryScreen displays the results of a finished study run.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

// Headline returns the title line for the run's outcome.
func Headline(res session.Results) string {
	switch {
	case res.Underflow:
		return "Session complete (ran out of items to review)"
	case res.Presented < res.Target:
		return "Session ended early"
	default:
		return "Session complete!"
	}
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	res := sum.Results
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(Headline(res)))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Duration: %d:%02d", mins, secs))))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Reviewed: %d/%d        Correct: %d        Incorrect: %d",
		res.Presented, res.Target, res.Correct, res.Incorrect)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(statsLine)))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	bar := components.NewProgressBar("Accuracy", res.Accuracy(), true, barWidth)
	bar.Fill = accuracyColor(res.Accuracy())
	b.WriteString(center(bar.View()))
	b.WriteString("\n")

	if res.Replenishments > 0 {
		b.WriteString("\n")
		b.WriteString(center(theme.Hint.Render(
			fmt.Sprintf("Queue refilled %d time(s) from this session's answers", res.Replenishments))))
		b.WriteString("\n")
	}

	if len(sum.Missed) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", barWidth))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Missed")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n")

		shown := sum.Missed
		if len(shown) > maxMissedShown {
			shown = shown[:maxMissedShown]
		}
		lines := make([]string, 0, len(shown)+1)
		for _, prompt := range shown {
			lines = append(lines, theme.Incorrect.Render("✗ ")+lipgloss.NewStyle().Foreground(theme.Text).Render(prompt))
		}
		if extra := len(sum.Missed) - len(shown); extra > 0 {
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("...and %d more", extra)))
		}
		b.WriteString(center(lipgloss.NewStyle().Width(barWidth).Render(strings.Join(lines, "\n"))))
		b.WriteString("\n")
	}

	return b.String()
}

// accuracyColor returns the bar fill for an accuracy ratio.
func accuracyColor(acc float64) color.Color {
	switch {
	case acc >= 0.8:
		return theme.Success
	case acc >= 0.5:
		return theme.Accent
	default:
		return theme.Error
	}
}
