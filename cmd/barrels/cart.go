package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/millesime/barrels/internal/cart"
	"github.com/millesime/barrels/pkg/domain"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage your cart",
		Long:  `List, edit, save and export the cart. Lines are addressed by their number in "cart ls" or by line ID.`,
	}
	cmd.AddCommand(
		newCartLsCmd(),
		newCartAddCmd(),
		newCartQtyCmd(),
		newCartRmCmd(),
		newCartClearCmd(),
		newCartPromoCmd(),
		newCartCheckoutCmd(),
		newCartSaveCmd(),
		newCartRestoreCmd(),
		newCartExportCmd(),
	)
	return cmd
}

// resolveLine maps a 1-based line number or a line ID to a line ID.
func resolveLine(items []domain.CartItem, arg string) (string, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(items) {
			return "", fmt.Errorf("no cart line %d (cart has %d)", n, len(items))
		}
		return items[n-1].ID, nil
	}
	for _, it := range items {
		if it.ID == arg {
			return it.ID, nil
		}
	}
	return "", fmt.Errorf("no cart line %q", arg)
}

func newCartLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print the cart with totals",
		Args:    cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			if ids, _ := cmd.Flags().GetBool("ids"); ids { //nolint:errcheck
				for i, it := range s.cart.Items() {
					fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s  %s\n", i+1, it.ID, it.Name) //nolint:errcheck
				}
				return nil
			}
			printCart(cmd.OutOrStdout(), s.cart.Items(), s.cart.Summary(), nil)
			return nil
		}),
	}
	cmd.Flags().Bool("ids", false, "Print line IDs instead of totals")
	return cmd
}

func newCartAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <barrel-id> [quantity]",
		Short: "Add a barrel to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withShop(func(cmd *cobra.Command, args []string, s *shop) error {
			qty := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				qty = n
			}
			b, err := s.api.GetBarrel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !b.InStock() {
				return fmt.Errorf("%s is out of stock", b.Name)
			}
			if err := s.cart.Add(cmd.Context(), domain.CartItemFromBarrel(*b), qty); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d x %s (%d in cart)\n", qty, b.Name, s.cart.QuantityOf(b.ID.String())) //nolint:errcheck
			return nil
		}),
	}
}

func newCartQtyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qty <line> <quantity>",
		Short: "Set the quantity of a line (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: withShop(func(cmd *cobra.Command, args []string, s *shop) error {
			id, err := resolveLine(s.cart.Items(), args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			s.cart.UpdateQuantity(cmd.Context(), id, qty)
			printCart(cmd.OutOrStdout(), s.cart.Items(), s.cart.Summary(), nil)
			return nil
		}),
	}
}

func newCartRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <line>...",
		Short: "Remove one or more lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: withShop(func(cmd *cobra.Command, args []string, s *shop) error {
			// Resolve every argument before removing so numbers stay stable.
			items := s.cart.Items()
			ids := make([]string, 0, len(args))
			for _, a := range args {
				id, err := resolveLine(items, a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			for _, id := range ids {
				if s.cart.Remove(cmd.Context(), id) {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id) //nolint:errcheck
				}
			}
			return nil
		}),
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			s.cart.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.") //nolint:errcheck
			return nil
		}),
	}
}

func newCartPromoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promo <code>",
		Short: "Show the cart total with a promo code",
		Args:  cobra.ExactArgs(1),
		RunE: withShop(func(cmd *cobra.Command, args []string, s *shop) error {
			res := s.cart.ApplyPromo(args[0])
			if !res.Success {
				return errors.New(res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(res.Message)) //nolint:errcheck
			printCart(cmd.OutOrStdout(), s.cart.Items(), s.cart.Summary(), &res)
			return nil
		}),
	}
}

func newCartCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Open the checkout page in the browser",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			if s.cart.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Your cart is empty.") //nolint:errcheck
				return nil
			}
			if err := s.cart.Checkout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opening %s\n", s.nav.URL(cart.CheckoutPath)) //nolint:errcheck
			return nil
		}),
	}
}

func newCartSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the cart for later and empty it",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			n := s.cart.ItemCount()
			if err := s.cart.SaveForLater(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d barrels for later.\n", n) //nolint:errcheck
			return nil
		}),
	}
}

func newCartRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore the saved cart, replacing the current one",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			if !s.cart.RestoreSaved(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved cart.") //nolint:errcheck
				return nil
			}
			printCart(cmd.OutOrStdout(), s.cart.Items(), s.cart.Summary(), nil)
			return nil
		}),
	}
}

func newCartExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the cart to " + cart.ExportFilename,
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			format, _ := cmd.Flags().GetString("format") //nolint:errcheck
			if err := s.cart.Export(cmd.Context(), format); err != nil {
				return err
			}
			if format == cart.FormatCSV {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", s.cart.ExportPath()) //nolint:errcheck
			}
			return nil
		}),
	}
	cmd.Flags().String("format", cart.FormatCSV, "Export format: csv or pdf")
	return cmd
}
