package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/millesime/barrels/pkg/client"
	"github.com/millesime/barrels/pkg/domain"
)

type catalogModel struct {
	client  *client.Client
	barrels []domain.Barrel
	page    int
	pages   int
	total   int
	cursor  int
	search  string
	editing bool // true when typing in search
	err     error
	width   int
	height  int
	loading bool
}

type barrelsLoadedMsg struct {
	barrels []domain.Barrel
	page    int
	pages   int
	total   int
	err     error
}

func newCatalogModel(c *client.Client) catalogModel {
	return catalogModel{
		client:  c,
		page:    1,
		loading: true,
	}
}

func (m catalogModel) Init() tea.Cmd {
	return m.load()
}

func (m catalogModel) load() tea.Cmd {
	c, search, page := m.client, m.search, m.page
	return func() tea.Msg {
		ctx := context.Background()
		if search != "" {
			barrels, err := c.SearchBarrels(ctx, search, pageSize)
			return barrelsLoadedMsg{barrels: barrels, page: 1, pages: 1, total: len(barrels), err: err}
		}
		p, err := c.ListBarrels(ctx, page, pageSize, domain.BarrelFilter{})
		if err != nil {
			return barrelsLoadedMsg{page: page, err: err}
		}
		return barrelsLoadedMsg{barrels: p.Items, page: p.Page, pages: p.Pages, total: p.Total}
	}
}

// selected returns the barrel under the cursor.
func (m catalogModel) selected() (domain.Barrel, bool) {
	if m.cursor < 0 || m.cursor >= len(m.barrels) {
		return domain.Barrel{}, false
	}
	return m.barrels[m.cursor], true
}

func (m catalogModel) Update(msg tea.Msg) (catalogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case barrelsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.barrels = msg.barrels
		m.page = max(msg.page, 1)
		m.pages = msg.pages
		m.total = msg.total
		if m.cursor >= len(m.barrels) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m catalogModel) updateSearch(msg tea.KeyMsg) (catalogModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.loading = true
		m.cursor = 0
		return m, m.load()
	case "esc":
		m.editing = false
		m.search = ""
		m.loading = true
		m.page = 1
		return m, m.load()
	default:
		m.search = editRune(m.search, msg.String())
	}
	return m, nil
}

func (m catalogModel) updateList(msg tea.KeyMsg) (catalogModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.barrels)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.editing = true
		m.search = ""
	case "]":
		if m.search == "" && m.page < m.pages {
			m.page++
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "[":
		if m.search == "" && m.page > 1 {
			m.page--
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "g":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m catalogModel) View() string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render("THE CATALOG"))
	if m.width >= 50 {
		b.WriteString("  " + dimStyle.Italic(true).Render("Oak that remembers what it held."))
	}
	b.WriteString("\n")

	if m.editing {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	} else {
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}
	if m.search == "" && m.pages > 1 {
		b.WriteString("   " + metaStyle.Render(fmt.Sprintf("page %d/%d", m.page, m.pages)) + "  " + helpKeyStyle.Render("[ ]"))
	}
	if m.total > 0 {
		b.WriteString("   " + metaStyle.Render(fmt.Sprintf("%d barrels", m.total)))
	}
	b.WriteString("\n")

	sepW := max(m.width-2, 4)
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	return b.String() + m.viewList()
}

func (m catalogModel) viewList() string {
	if len(m.barrels) == 0 {
		return " " + dimStyle.Render("no barrels found")
	}

	var b strings.Builder

	viewChrome := 8 // header + search + separator + detail chrome
	available := max(m.height-viewChrome, 6)
	maxVisible := max(available*3/5, 3)

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}

	for i := start; i < len(m.barrels) && i < start+maxVisible; i++ {
		br := m.barrels[i]

		cursor := "  "
		nameStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			nameStyle = normalStyle.Bold(true)
		}
		dot := OriginStyle(br.OriginCountry).Render("●") + " "

		// Wide: origin(14) + volume(8) + price(12); narrow drops origin.
		showOrigin := m.width >= 70
		rightWidth := 8 + 12 + 2
		var right []string
		if showOrigin {
			right = append(right, OriginStyle(br.OriginCountry).Render(fmt.Sprintf("%-14s", truncStr(br.OriginCountry, 14))))
			rightWidth += 15
		}
		right = append(right,
			metaStyle.Render(fmt.Sprintf("%8s", formatVolume(float64(br.VolumeLiters)))),
			priceStyle.Render(fmt.Sprintf("%12s", formatPrice(float64(br.Price)))),
		)

		nameWidth := max(m.width-4-rightWidth, 10)
		name := fmt.Sprintf("%-*s", nameWidth, truncStr(br.Name, nameWidth))

		line := cursor + dot + nameStyle.Render(name) + " " + strings.Join(right, " ")
		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	if br, ok := m.selected(); ok {
		b.WriteString("\n")
		b.WriteString(m.viewDetail(br, available-maxVisible-2))
	}

	return truncateToHeight(b.String(), m.height)
}

func (m catalogModel) viewDetail(br domain.Barrel, maxLines int) string {
	var b strings.Builder

	header := " " + selectedStyle.Render(br.Name)
	if br.WoodType != "" {
		header += "  " + metaStyle.Render(br.WoodType)
	}
	if br.PreviousContent != "" {
		header += "  " + metaStyle.Render("ex-"+br.PreviousContent)
	}
	if br.Condition != "" {
		header += "  " + metaStyle.Render(br.Condition)
	}
	b.WriteString(header + "\n")

	stock := "out of stock"
	if br.InStock() {
		stock = fmt.Sprintf("%d in stock", br.StockQuantity)
	}
	b.WriteString(" " + stockStyle(br.StockQuantity).Render(stock) + "\n")

	if br.Description != "" {
		width := max(m.width-4, 40)
		lines := strings.Split(lipgloss.NewStyle().Width(width).Render(br.Description), "\n")
		if len(lines) > max(maxLines, 2) {
			lines = lines[:max(maxLines, 2)]
		}
		for _, line := range lines {
			b.WriteString(" " + normalStyle.Render(line) + "\n")
		}
	}
	return b.String()
}
