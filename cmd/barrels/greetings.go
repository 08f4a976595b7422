package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var cellarGreetings = [...]string{
	"The cellar door is open. You are still on the doorstep.",
	"Every barrel here held something for twenty years. You can hold a password for five seconds.",
	"The cooper tapped the staves twice. That means sign in.",
	"Oak breathes slowly. Take your time. But not too much.",
	"A barrel without a buyer is just a very patient piece of furniture.",
	"Bordeaux, Rioja, Porto. They all waited in line. So can you, after logging in.",
	"The angels took their share. There is still plenty left for you.",
	"Second lives are our specialty. Start with your session.",
	"The toast level is medium. Your login level is zero.",
	"We ship across borders. We do not ship to anonymous accounts.",
	"Somewhere a whisky maker just bought the cask you were looking at.",
	"The cellar master remembers every face. Yours is not on file yet.",
	"A good barrel is sealed tight. So is this shop, until you sign in.",
	"Sherry casks, bourbon casks, cognac casks. Your cart is empty casks.",
	"The tasting room is quiet. Sign in and make some noise.",
}

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d9466f")).
		Bold(true).
		Render("M I L L É S I M E")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"Barrels that carry their history, without borders."`)

	attrib := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d4a844")).
		Render("Millésime Sans Frontières")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"barrels", "Browse the shop (interactive TUI)"},
		{"barrels login", "Sign in with email and password"},
		{"barrels register", "Create a customer account"},
		{"barrels logout", "Clear your session"},
		{"barrels whoami", "Show the signed-in account"},
		{"barrels profile", "Show or update your profile"},
		{"barrels passwd", "Change your password"},
		{"barrels refresh", "Refresh your session token"},
		{"barrels status", "Show session and cart state"},
		{"barrels barrels", "List or search the catalog"},
		{"barrels categories", "List origin countries and wood types"},
		{"barrels cart", "Manage your cart (ls, add, qty, rm, promo...)"},
		{"barrels version", "Show version"},
		{"barrels help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n  %s\n\n  Commands:\n", title, quote, attrib) //nolint:errcheck
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc)) //nolint:errcheck
	}
	flags := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("Global flags: --env-file, --store, --log-level")
	fmt.Fprintf(w, "\n  %s\n\n", flags) //nolint:errcheck
}

func printGreeting(w io.Writer) {
	msg := cellarGreetings[rand.IntN(len(cellarGreetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d9466f")).
		Bold(true).
		Render("MILLÉSIME")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	attrib := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d4a844")).
		Render("The cellar master")

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To sign in: barrels login")

	fmt.Fprintf(w, "\n%s\n\n%s\n%s\n\n%s\n\n", title, quote, attrib, hint) //nolint:errcheck
}
