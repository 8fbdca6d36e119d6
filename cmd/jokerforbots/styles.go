package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/jokerforbots/joker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	blackCardStyle = lipgloss.NewStyle().
			Bold(true)

	jokerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

func renderCard(c joker.Card) string {
	if c.IsJoker() {
		return jokerStyle.Render(c.String())
	}
	if s, _ := c.Suit(); s.IsRed() {
		return redCardStyle.Render(c.String())
	}
	return blackCardStyle.Render(c.String())
}

func renderCards(cards []joker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = renderCard(c)
	}
	return strings.Join(parts, " ")
}

func renderScore(score float64, format string) string {
	s := fmt.Sprintf(format, score)
	switch {
	case score > 0:
		return winStyle.Render(s)
	case score < 0:
		return lossStyle.Render(s)
	default:
		return s
	}
}
