package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/millesime/barrels/internal/cart"
	"github.com/millesime/barrels/internal/session"
	"github.com/millesime/barrels/pkg/client"
	"github.com/millesime/barrels/pkg/domain"
)

// SessionExpiredMsg tells the App that the background token check ended
// the session.
type SessionExpiredMsg struct{}

type profileLoadedMsg struct {
	user *domain.User
	err  error
}

type checkoutResultMsg struct{ err error }
type exportResultMsg struct{ err error }
type copyResultMsg struct{ err error }
type logoutDoneMsg struct{}

// Navigator opens a page of the shop website.
type Navigator interface {
	Navigate(path string) error
}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// App is the root Bubbletea model.
type App struct {
	client       *client.Client
	session      *session.Manager
	cart         *cart.Manager
	nav          Navigator
	catalog      catalogModel
	cartCursor   int
	promoEditing bool
	promoInput   string
	promoCode    string // last code entered, re-evaluated as the cart changes
	helpOpen     bool
	helpCursor   int
	status       string
	statusErr    bool
	now          func() time.Time
	width        int
	height       int
	frame        int // logo shimmer animation frame
}

// NewApp creates the TUI. nav may be nil, in which case help links are not
// opened.
func NewApp(c *client.Client, sess *session.Manager, crt *cart.Manager, nav Navigator) App {
	return App{
		client:  c,
		session: sess,
		cart:    crt,
		nav:     nav,
		catalog: newCatalogModel(c),
		now:     time.Now,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.catalog.Init(), shimmerTickCmd(), a.loadProfile())
}

func (a App) loadProfile() tea.Cmd {
	if !a.session.Authenticated() {
		return nil
	}
	sess := a.session
	return func() tea.Msg {
		u, err := sess.FetchProfile(context.Background())
		return profileLoadedMsg{user: u, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + status/input(1) + help(1) = 4 lines
		a.catalog, _ = a.catalog.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4})
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case profileLoadedMsg:
		if msg.err != nil && client.IsStatus(msg.err, http.StatusUnauthorized) {
			a.setError("the server rejected your session -- run: barrels login")
		}
		return a, nil

	case SessionExpiredMsg:
		a.setError("your session expired -- run: barrels login")
		return a, nil

	case logoutDoneMsg:
		a.setStatus("logged out")
		return a, nil

	case checkoutResultMsg:
		if msg.err != nil {
			a.setError(fmt.Sprintf("checkout failed: %v", msg.err))
		} else {
			a.setStatus("checkout opened in your browser")
		}
		return a, nil

	case exportResultMsg:
		if msg.err != nil {
			a.setError(fmt.Sprintf("export failed: %v", msg.err))
		} else {
			a.setStatus("cart exported to " + a.cart.ExportPath())
		}
		return a, nil

	case copyResultMsg:
		if msg.err != nil {
			a.setError(fmt.Sprintf("copy failed: %v", msg.err))
		} else {
			a.setStatus("cart copied to clipboard")
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.catalog, cmd = a.catalog.Update(msg)
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	key := msg.String()

	// Help overlay captures all keys when open
	if a.helpOpen {
		switch key {
		case "h", "esc":
			a.helpOpen = false
		case "q", "ctrl+c":
			return a, tea.Quit
		case "j", "down":
			if a.helpCursor < len(helpItems)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			if a.nav != nil {
				a.nav.Navigate(helpItems[a.helpCursor].path) //nolint:errcheck // best-effort browser open
			}
		}
		return a, nil
	}

	if a.promoEditing {
		switch key {
		case "enter":
			a.promoEditing = false
			a.promoCode = a.promoInput
			res := a.cart.ApplyPromo(a.promoCode)
			if res.Success {
				a.setStatus(res.Message)
			} else {
				a.setError(res.Message)
			}
		case "esc":
			a.promoEditing = false
		default:
			a.promoInput = editRune(a.promoInput, key)
		}
		return a, nil
	}

	if a.catalog.editing {
		var cmd tea.Cmd
		a.catalog, cmd = a.catalog.Update(msg)
		return a, cmd
	}

	a.status = ""
	switch key {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "h":
		a.helpOpen = true
		a.helpCursor = 0
		return a, nil
	case "c":
		a.cart.Toggle()
		a.clampCartCursor()
		return a, nil
	case "p":
		a.cart.Open()
		a.promoEditing = true
		a.promoInput = ""
		return a, nil
	case "o":
		if a.cart.Len() == 0 {
			a.setStatus("your cart is empty")
			return a, nil
		}
		crt := a.cart
		return a, func() tea.Msg {
			return checkoutResultMsg{err: crt.Checkout(context.Background())}
		}
	case "s":
		if a.cart.Len() == 0 {
			a.setStatus("your cart is empty")
			return a, nil
		}
		if err := a.cart.SaveForLater(ctx); err != nil {
			a.setError(fmt.Sprintf("save failed: %v", err))
			return a, nil
		}
		a.promoCode = ""
		a.cartCursor = 0
		a.setStatus("cart saved for later")
		return a, nil
	case "r":
		if a.cart.RestoreSaved(ctx) {
			a.cartCursor = 0
			a.setStatus("saved cart restored")
		} else {
			a.setStatus("no saved cart to restore")
		}
		return a, nil
	case "x":
		a.cart.Clear(ctx)
		a.promoCode = ""
		a.cartCursor = 0
		a.setStatus("cart cleared")
		return a, nil
	case "e":
		crt := a.cart
		return a, func() tea.Msg {
			return exportResultMsg{err: crt.Export(context.Background(), cart.FormatCSV)}
		}
	case "y":
		text := a.cart.CSV()
		return a, func() tea.Msg {
			return copyResultMsg{err: copyToClipboard(text)}
		}
	case "L":
		if !a.session.Authenticated() {
			a.setStatus("not signed in")
			return a, nil
		}
		sess := a.session
		return a, func() tea.Msg {
			sess.Logout(context.Background())
			return logoutDoneMsg{}
		}
	}

	if a.cart.IsOpen() {
		return a.updateCart(msg)
	}

	switch key {
	case "a", "enter":
		a.addSelected(ctx)
		return a, nil
	}

	var cmd tea.Cmd
	a.catalog, cmd = a.catalog.Update(msg)
	return a, cmd
}

// updateCart handles keys while the cart panel is open.
func (a App) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	items := a.cart.Items()

	switch msg.String() {
	case "esc":
		a.cart.Close()
	case "j", "down":
		if a.cartCursor < len(items)-1 {
			a.cartCursor++
		}
	case "k", "up":
		if a.cartCursor > 0 {
			a.cartCursor--
		}
	case "+", "=":
		if it, ok := lineAt(items, a.cartCursor); ok {
			a.cart.UpdateQuantity(ctx, it.ID, it.Quantity+1)
		}
	case "-":
		if it, ok := lineAt(items, a.cartCursor); ok {
			a.cart.UpdateQuantity(ctx, it.ID, it.Quantity-1)
		}
	case "d":
		if it, ok := lineAt(items, a.cartCursor); ok {
			a.cart.Remove(ctx, it.ID)
			a.setStatus("removed " + it.Name)
		}
	}
	a.clampCartCursor()
	return a, nil
}

func (a *App) addSelected(ctx context.Context) {
	br, ok := a.catalog.selected()
	if !ok {
		return
	}
	if !br.InStock() {
		a.setError(br.Name + " is out of stock")
		return
	}
	if err := a.cart.Add(ctx, domain.CartItemFromBarrel(br), 1); err != nil {
		a.setError(fmt.Sprintf("add failed: %v", err))
		return
	}
	a.setStatus(fmt.Sprintf("added %s (%d in cart)", br.Name, a.cart.QuantityOf(br.ID.String())))
}

func (a *App) clampCartCursor() {
	n := a.cart.Len()
	if a.cartCursor >= n {
		a.cartCursor = max(n-1, 0)
	}
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(s string) {
	a.status = s
	a.statusErr = true
}

func lineAt(items []domain.CartItem, i int) (domain.CartItem, bool) {
	if i < 0 || i >= len(items) {
		return domain.CartItem{}, false
	}
	return items[i], true
}

// accountLine summarizes the session and the cart for the header.
func (a App) accountLine() string {
	var parts []string

	s := a.session.Snapshot()
	if s.Authenticated() {
		who := selectedStyle.Render(s.User.DisplayName())
		if badge := RoleBadge(s.User.Role); badge != "" {
			who += " " + badge
		}
		parts = append(parts, who)
		if exp, ok := a.session.TokenExpiry(); ok {
			parts = append(parts, metaStyle.Render(formatRemaining(exp, a.now())))
		}
	} else {
		parts = append(parts, dimStyle.Render("not signed in"))
	}

	sum := a.cart.Summary()
	parts = append(parts, metaStyle.Render(fmt.Sprintf("cart %d", sum.ItemCount)))
	if sum.ItemCount > 0 {
		parts = append(parts, priceStyle.Render(formatPrice(sum.Total)))
	}
	return strings.Join(parts, metaStyle.Render(" · "))
}

func centered(s string, width int) string {
	return strings.Repeat(" ", max((width-lipgloss.Width(s))/2, 0)) + s
}

func (a App) View() string {
	header := centered(renderShimmerLogo(a.frame), a.width) + "\n" + centered(a.accountLine(), a.width)

	var body, help string
	switch {
	case a.helpOpen:
		body = helpView(a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	case a.cart.IsOpen():
		var promo *domain.PromoResult
		if a.promoCode != "" {
			res := a.cart.ApplyPromo(a.promoCode)
			promo = &res
		}
		body = cartView(a.cart.Items(), a.cart.Summary(), a.cartCursor, promo, a.cart.HasSaved(context.Background()), a.width)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("+/-", "qty") + "  " + helpEntry("d", "remove") + "  " + helpEntry("p", "promo") + "  " + helpEntry("o", "checkout") + "  " + helpEntry("s", "save") + "  " + helpEntry("e", "export") + "  " + helpEntry("c", "close") + "  " + helpEntry("q", "quit")
	default:
		body = a.catalog.View()
		if a.catalog.editing {
			help = " " + helpEntry("enter", "search") + "  " + helpEntry("esc", "cancel")
		} else {
			help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("a", "add") + "  " + helpEntry("/", "search") + "  " + helpEntry("c", "cart") + "  " + helpEntry("r", "restore") + "  " + helpEntry("L", "logout") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
		}
	}

	var statusBar string
	switch {
	case a.promoEditing:
		statusBar = renderInput("promo", a.promoInput, "WELCOME10", true)
		help = " " + helpEntry("enter", "apply") + "  " + helpEntry("esc", "cancel")
	case a.status != "" && a.statusErr:
		statusBar = " " + errStyle.Render(a.status)
	case a.status != "":
		statusBar = " " + okStyle.Render(a.status)
	}

	// Chrome budget: header(2) + status(1) + help(1) = 4 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, statusBar, help)
}
