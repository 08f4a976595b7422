package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/millesime/barrels/pkg/domain"
)

// Shimmer animation for the header logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

const logoText = "MILLÉSIME"

// renderShimmerLogo renders the logo as a slow wave running from deep
// lees (#3b0a1a) to bright claret (#d9466f), letters spaced apart.
func renderShimmerLogo(frame int) string {
	letters := []rune(logoText)
	n := len(letters)
	t := float64(frame)

	var out strings.Builder
	for i, r := range letters {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)
		b = b*0.75 + math.Sin(t*0.035)*0.12 + 0.18
		b = math.Min(math.Max(b, 0.05), 1.0)

		color := fmt.Sprintf("#%02X%02X%02X",
			clampByte(59+b*(217-59)),
			clampByte(10+b*(70-10)),
			clampByte(26+b*(111-26)),
		)
		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(r)))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ece4e6")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8c0c4"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5a5058"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5a5058"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d9466f")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0395a"))

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6a6068")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#c0395a")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3e3640"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#2a1a20"))

	// Origin colors follow the main cooperage countries.
	originColors = map[string]lipgloss.Color{
		"France":        lipgloss.Color("#6090e0"),
		"Spain":         lipgloss.Color("#f0944a"),
		"Italy":         lipgloss.Color("#4ade80"),
		"Portugal":      lipgloss.Color("#e06060"),
		"United States": lipgloss.Color("#b8ccdf"),
		"Hungary":       lipgloss.Color("#c084e0"),
		"Scotland":      lipgloss.Color("#3ecce4"),
	}

	roleColors = map[domain.Role]lipgloss.Color{
		domain.RoleAdmin: lipgloss.Color("#e06060"),
		domain.RoleB2B:   lipgloss.Color("#d4a844"),
		domain.RoleB2C:   lipgloss.Color("#6090e0"),
	}
)

// OriginStyle returns a bold style colored for a barrel's origin country.
func OriginStyle(country string) lipgloss.Style {
	if c, ok := originColors[country]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#6a6068")).Bold(true)
}

// RoleStyle returns a bold style colored for an account role.
func RoleStyle(role domain.Role) lipgloss.Style {
	if c, ok := roleColors[role]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// RoleBadge returns a short colored badge for a role, e.g. "[B2B]".
func RoleBadge(role domain.Role) string {
	if role == "" {
		return ""
	}
	return RoleStyle(role).Render("[" + strings.ToUpper(string(role)) + "]")
}

// stockStyle colors a stock count: none, last units, plenty.
func stockStyle(qty int) lipgloss.Style {
	switch {
	case qty <= 0:
		return errStyle
	case qty < 5:
		return priceStyle
	default:
		return okStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable site page in the help overlay.
type helpItem struct {
	label string
	path  string
}

var helpItems = []helpItem{
	{"Shop", "/"},
	{"Catalog", "/barrels"},
	{"Checkout", "/checkout"},
	{"Account", "/profile"},
}

// helpView renders the help overlay with a cursor on the site links.
func helpView(cursor int) string {
	title := searchStyle.Render("M I L L É S I M E")
	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Sans Frontières. Barrels that carry their history.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	linkStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d9466f"))

	commands := []struct{ cmd, desc string }{
		{"barrels", "Browse the catalog (this screen)"},
		{"barrels login", "Sign in"},
		{"barrels whoami", "Show the signed-in account"},
		{"barrels cart ls", "Print the cart with totals"},
		{"barrels cart export", "Write the cart to cart.csv"},
		{"barrels logout", "Clear your session"},
	}
	keys := []struct{ key, desc string }{
		{"a / enter", "add barrel to cart"},
		{"c", "open or close the cart"},
		{"+ / - / d", "change quantity, remove line"},
		{"p", "enter a promo code"},
		{"o", "check out in the browser"},
		{"s / r", "save cart for later, restore it"},
		{"e / y", "export CSV, copy CSV"},
		{"L", "log out"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionHeaderStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionHeaderStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionHeaderStyle.Render("Site (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = linkStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, descStyle.Italic(true).Render(item.path))
	}
	return b.String()
}
