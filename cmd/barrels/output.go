package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/millesime/barrels/pkg/domain"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d4a844"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06060"))
)

func euros(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

// describeUser renders "Name <email> (role)".
func describeUser(u *domain.User) string {
	if u == nil {
		return "anonymous"
	}
	name := u.DisplayName()
	if name == u.Email {
		return fmt.Sprintf("%s (%s)", u.Email, u.Role)
	}
	return fmt.Sprintf("%s <%s> (%s)", name, u.Email, u.Role)
}

func printProfile(w io.Writer, u *domain.User) {
	rows := []struct{ label, value string }{
		{"Email", u.Email},
		{"Name", strings.TrimSpace(u.FirstName + " " + u.LastName)},
		{"Account", domain.Roles[u.Role]},
		{"Company", u.CompanyName},
		{"Phone", u.PhoneNumber},
	}
	if !u.CreatedAt.IsZero() {
		rows = append(rows, struct{ label, value string }{"Member since", u.CreatedAt.Local().Format(time.DateOnly)})
	}
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", r.label)), r.value) //nolint:errcheck
	}
}

func printStatus(ctx context.Context, w io.Writer, s *shop, now time.Time) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Session "), s.session.String()) //nolint:errcheck
	if s.session.Authenticated() {
		token := badStyle.Render("expired")
		if s.session.IsTokenValid() {
			token = okStyle.Render("valid")
		}
		if exp, ok := s.session.TokenExpiry(); ok {
			token += " " + labelStyle.Render("until "+exp.Local().Format(time.DateTime))
			if exp.After(now) {
				token += " " + labelStyle.Render("("+exp.Sub(now).Round(time.Minute).String()+" left)")
			}
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Token   "), token) //nolint:errcheck
	}

	sum := s.cart.Summary()
	fmt.Fprintf(w, "%s %d barrels, %s\n", labelStyle.Render("Cart    "), sum.ItemCount, euros(sum.Total)) //nolint:errcheck
	saved := "none"
	if s.cart.HasSaved(ctx) {
		saved = "yes -- run: barrels cart restore"
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Saved   "), saved) //nolint:errcheck
	fmt.Fprintf(w, "%s %s (%s)\n", labelStyle.Render("Store   "), s.cfg.Store, s.cfg.APIBaseURL) //nolint:errcheck
}

// printCart renders the cart lines and totals. A non-nil promo adds the
// discount line and reduces the total.
func printCart(w io.Writer, items []domain.CartItem, sum domain.CartSummary, promo *domain.PromoResult) {
	if len(items) == 0 {
		fmt.Fprintln(w, labelStyle.Render("Your cart is empty.")) //nolint:errcheck
		return
	}
	for i, it := range items {
		fmt.Fprintf(w, "%2d. %-32s %-14s %8s  %3d x %12s = %12s\n", //nolint:errcheck
			i+1, truncate(it.Name, 32), truncate(it.OriginCountry, 14),
			fmt.Sprintf("%g L", it.VolumeLiters), it.Quantity, euros(it.Price), euros(it.LineTotal()))
	}
	fmt.Fprintln(w) //nolint:errcheck
	line := func(label, value string) {
		fmt.Fprintf(w, "%s %14s\n", labelStyle.Render(fmt.Sprintf("%-12s", label)), value) //nolint:errcheck
	}
	line("Subtotal", euros(sum.Subtotal))
	shipping := euros(sum.Shipping)
	if sum.Shipping == 0 {
		shipping = "free"
	}
	line("Shipping", shipping)
	line("VAT 20%", euros(sum.Tax))
	total := sum.Total
	if promo != nil && promo.Success {
		line("Promo", "-"+euros(promo.Discount))
		total -= promo.Discount
	}
	fmt.Fprintln(w, totalStyle.Render(fmt.Sprintf("%-12s %14s", "Total", euros(total)))) //nolint:errcheck
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
