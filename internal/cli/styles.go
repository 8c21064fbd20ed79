// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gridbook/gridbook/internal/model"
)

var (
	// TrustedColor marks drivers safe to race closely.
	TrustedColor = lipgloss.Color("#4ECDC4") // Teal
	// NeutralColor marks drivers with no verdict.
	NeutralColor = lipgloss.Color("#CCCCCC") // Light gray
	// CautionColor marks drivers to give extra room.
	CautionColor = lipgloss.Color("#FFE66D") // Yellow
	// AvoidColor marks drivers to stay away from.
	AvoidColor = lipgloss.Color("#FF6B6B") // Red
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// WarningStyle formats proximity warnings.
	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AvoidColor)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	trustedStyle = lipgloss.NewStyle().Foreground(TrustedColor)
	neutralStyle = lipgloss.NewStyle().Foreground(NeutralColor)
	cautionStyle = lipgloss.NewStyle().Foreground(CautionColor)
	avoidStyle   = lipgloss.NewStyle().Bold(true).Foreground(AvoidColor)
)

// RenderTrust renders a trust level in its signature color.
func RenderTrust(level model.TrustLevel) string {
	switch level {
	case model.TrustTrusted:
		return trustedStyle.Render(level.String())
	case model.TrustCaution:
		return cautionStyle.Render(level.String())
	case model.TrustAvoid:
		return avoidStyle.Render(level.String())
	default:
		return neutralStyle.Render(level.String())
	}
}
