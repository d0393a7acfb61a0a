package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	ProgressBar   lipgloss.Style
	Selected      lipgloss.Style
	BundleIcon    lipgloss.Style
	StatusPending lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Italic        lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	RoundedBox    lipgloss.Style
	Highlighted   lipgloss.Style
	Box           lipgloss.Style
	BorderedBox   lipgloss.Style
	Button        lipgloss.Style
	ButtonOff     lipgloss.Style
	Secondary     lipgloss.Color
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Default is the ember theme.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#ea580c"),
	Secondary:  lipgloss.Color("#fb923c"),
	Success:    lipgloss.Color("#22c55e"),
	Warning:    lipgloss.Color("#f59e0b"),
	Error:      lipgloss.Color("#ef4444"),
	Info:       lipgloss.Color("#38bdf8"),
	Background: lipgloss.Color("#0a0a0a"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#f97316")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Italic: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#171717")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Highlighted: lipgloss.NewStyle().
		Background(lipgloss.Color("#404040")).
		Foreground(lipgloss.Color("#fafafa")),

	// Component styles
	Box: lipgloss.NewStyle().
		Padding(1, 2),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(1, 2),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#9a3412")).
		Padding(1, 2),
	ProgressBar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ea580c")),
	Button: lipgloss.NewStyle().
		Background(lipgloss.Color("#ea580c")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true).
		Padding(0, 2),
	ButtonOff: lipgloss.NewStyle().
		Background(lipgloss.Color("#262626")).
		Foreground(lipgloss.Color("#737373")).
		Padding(0, 2),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#22c55e")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38bdf8")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),

	BundleIcon: lipgloss.NewStyle().
		Width(3).
		Align(lipgloss.Center),
}

// Ash is a low-contrast theme for light terminals.
var Ash = Theme{
	// Colors
	Primary:    lipgloss.Color("#9a3412"),
	Secondary:  lipgloss.Color("#c2410c"),
	Success:    lipgloss.Color("#15803d"),
	Warning:    lipgloss.Color("#b45309"),
	Error:      lipgloss.Color("#b91c1c"),
	Info:       lipgloss.Color("#0369a1"),
	Background: lipgloss.Color("#fafaf9"),
	Foreground: lipgloss.Color("#1c1917"),
	Border:     lipgloss.Color("#d6d3d1"),
	Muted:      lipgloss.Color("#78716c"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#9a3412")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#57534e")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1c1917")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1c1917")),
	Italic: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#1c1917")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#fed7aa")).
		Foreground(lipgloss.Color("#1c1917")).
		Bold(true),
	Highlighted: lipgloss.NewStyle().
		Background(lipgloss.Color("#e7e5e4")).
		Foreground(lipgloss.Color("#1c1917")),

	// Component styles
	Box: lipgloss.NewStyle().
		Padding(1, 2),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#d6d3d1")).
		Padding(1, 2),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#c2410c")).
		Padding(1, 2),
	ProgressBar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9a3412")),
	Button: lipgloss.NewStyle().
		Background(lipgloss.Color("#c2410c")).
		Foreground(lipgloss.Color("#fafaf9")).
		Bold(true).
		Padding(0, 2),
	ButtonOff: lipgloss.NewStyle().
		Background(lipgloss.Color("#e7e5e4")).
		Foreground(lipgloss.Color("#78716c")).
		Padding(0, 2),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#15803d")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#b45309")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#b91c1c")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#0369a1")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#78716c")).
		Italic(true),

	BundleIcon: lipgloss.NewStyle().
		Width(3).
		Align(lipgloss.Center),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "ash":
		return Ash
	default:
		return Default
	}
}

// BundleIcons maps catalog icon ids to glyphs.
var BundleIcons = map[string]string{
	"steak": "🍖",
	"logs":  "🪵",
	"truck": "🚚",
	"flame": "🔥",
}

// GetBundleIcon returns an icon for a catalog icon id.
func GetBundleIcon(id string) string {
	if icon, ok := BundleIcons[id]; ok {
		return icon
	}
	return "🪵"
}
