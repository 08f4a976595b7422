package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/millesime/barrels/pkg/domain"
)

// cartView renders the cart panel: one row per line, the selected line
// highlighted, then the totals.
func cartView(items []domain.CartItem, sum domain.CartSummary, cursor int, promo *domain.PromoResult, hasSaved bool, width int) string {
	var b strings.Builder

	b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("YOUR CART (%d)", sum.ItemCount)) + "\n")
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", max(width-2, 4))) + "\n")

	if len(items) == 0 {
		b.WriteString(" " + dimStyle.Render("your cart is empty"))
		if hasSaved {
			b.WriteString("  " + dimStyle.Render("(a saved cart is waiting, r to restore)"))
		}
		b.WriteString("\n")
		return b.String()
	}

	rightWidth := 5 + 12 + 2
	nameWidth := max(width-4-rightWidth, 10)
	for i, it := range items {
		cursorMark := "  "
		nameStyle := dimStyle
		if i == cursor {
			cursorMark = accentStyle.Render("▸") + " "
			nameStyle = normalStyle.Bold(true)
		}
		name := fmt.Sprintf("%-*s", nameWidth, truncStr(it.Name, nameWidth))
		line := cursorMark + nameStyle.Render(name) + " " +
			metaStyle.Render(fmt.Sprintf("x%-4d", it.Quantity)) + " " +
			priceStyle.Render(fmt.Sprintf("%12s", formatPrice(it.LineTotal())))
		if i == cursor {
			padded := line + strings.Repeat(" ", max(width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
		if i == cursor {
			sub := "    " + OriginStyle(it.OriginCountry).Render(it.OriginCountry) +
				metaStyle.Render(fmt.Sprintf(" · %s · %s each", formatVolume(it.VolumeLiters), formatPrice(it.Price)))
			b.WriteString(sub + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(totalLine("Subtotal", sum.Subtotal, width))
	if sum.Shipping == 0 {
		b.WriteString(summaryRow("Shipping", okStyle.Render("free"), width))
	} else {
		b.WriteString(totalLine("Shipping", sum.Shipping, width))
	}
	b.WriteString(totalLine("VAT 20%", sum.Tax, width))
	total := sum.Total
	if promo != nil && promo.Success {
		b.WriteString(summaryRow("Promo", okStyle.Render("-"+formatPrice(promo.Discount)), width))
		total -= promo.Discount
	}
	b.WriteString(summaryRow("Total", selectedStyle.Render(formatPrice(total)), width))

	if promo != nil {
		style := okStyle
		if !promo.Success {
			style = errStyle
		}
		b.WriteString(" " + style.Render(promo.Message) + "\n")
	}
	return b.String()
}

func totalLine(label string, v float64, width int) string {
	return summaryRow(label, priceStyle.Render(formatPrice(v)), width)
}

// summaryRow right-aligns value against the panel width.
func summaryRow(label, value string, width int) string {
	left := " " + dimStyle.Render(label)
	pad := max(width-lipgloss.Width(left)-lipgloss.Width(value)-1, 1)
	return left + strings.Repeat(" ", pad) + value + "\n"
}
