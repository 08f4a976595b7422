package browser

import (
	"fmt"
	"io"
	"strings"
)

// Navigator sends the user to pages of the shop website.
type Navigator struct {
	BaseURL string
	// Open launches the browser. Defaults to the package Open.
	Open func(url string) error
	// Fallback receives the URL when the browser cannot be launched.
	Fallback io.Writer
}

// NewNavigator returns a Navigator for the site at baseURL.
func NewNavigator(baseURL string, fallback io.Writer) *Navigator {
	return &Navigator{BaseURL: baseURL, Open: Open, Fallback: fallback}
}

// URL joins the site base URL and path.
func (n *Navigator) URL(path string) string {
	return strings.TrimRight(n.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Navigate opens path on the site. If the browser cannot be launched and a
// fallback writer is set, the URL is printed there instead of failing.
func (n *Navigator) Navigate(path string) error {
	u := n.URL(path)
	open := n.Open
	if open == nil {
		open = Open
	}
	if err := open(u); err != nil {
		if n.Fallback == nil {
			return fmt.Errorf("browser.Navigate: %w", err)
		}
		fmt.Fprintf(n.Fallback, "Could not open browser. Visit this URL manually:\n  %s\n", u) //nolint:errcheck
	}
	return nil
}
