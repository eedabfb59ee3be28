package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/recall/internal/mastery"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/ui/layout"
	"github.com/abhisek/recall/internal/ui/theme"
)

var ratingNames = []string{"", "Again", "Hard", "Good", "Easy"}

// progressLine renders "3/20  ✓ 2  ✗ 1".
func progressLine(res session.Results) string {
	return fmt.Sprintf("%d/%d  %s %d  %s %d",
		res.Presented, res.Target,
		lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), res.Correct,
		lipgloss.NewStyle().Foreground(theme.Error).Render("✗"), res.Incorrect,
	)
}

// renderCard renders the current item, with its answer once revealed.
func (s *StudyScreen) renderCard(width, height int) string {
	it := s.current
	cls := mastery.Classify(it.Item, s.shownAt)

	var b strings.Builder

	info := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %s %s  %s  %d left",
			mastery.Icon(cls.Status), mastery.Label(cls.Status),
			mastery.MasteryBar(cls.MasteryPercent),
			s.runner.Remaining()))
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")
	if !layout.IsCompactHeight(height) {
		b.WriteString("\n")
	}

	cardWidth := min(width-8, 70)
	var card strings.Builder
	card.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(it.Prompt))
	if it.Media != "" {
		card.WriteString("\n")
		card.WriteString(theme.Hint.Render(it.Media))
	}

	switch {
	case s.opts.Typed:
		card.WriteString("\n\n")
		card.WriteString("Answer: " + s.input.View())
	case s.revealed:
		card.WriteString("\n\n")
		card.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("┄", max(cardWidth-10, 0))))
		card.WriteString("\n\n")
		card.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(it.Answer))
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Card.Width(cardWidth).Render(card.String())))
	b.WriteString("\n\n")

	if !s.opts.Typed {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderPrompt()))
	}
	return b.String()
}

// renderPrompt shows what the learner can do next below the card.
func (s *StudyScreen) renderPrompt() string {
	if !s.revealed {
		return theme.Hint.Render("Press Space to reveal the answer")
	}
	parts := make([]string, 0, len(ratingNames)-1)
	for r := 1; r < len(ratingNames); r++ {
		parts = append(parts, theme.RatingColors[r].Render(fmt.Sprintf("[%d] %s", r, ratingNames[r])))
	}
	return strings.Join(parts, "   ")
}

// renderFeedback renders the result of a typed answer.
func (s *StudyScreen) renderFeedback(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.lastCorrect {
		b.WriteString(center.Inherit(theme.Correct).Render("Correct!"))
	} else {
		b.WriteString(center.Inherit(theme.Incorrect).Render("Not quite"))
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.TextDim).Render("You typed: " + s.input.Value()))
	}
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Text).Render(s.lastItem.Prompt))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Secondary).Render(s.lastItem.Answer))
	b.WriteString("\n\n")
	b.WriteString(center.Inherit(theme.Hint).Render("Press any key to continue"))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Answers so far are already saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("[N] No, keep going"))
	return b.String()
}

// renderLoading renders a loading message.
func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Preparing your session...")
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  %s\n\n  Press any key to exit.", errMsg))
}
