package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/millesime/barrels/pkg/domain"
)

func newBarrelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "barrels [query]",
		Aliases: []string{"catalog"},
		Short:   "List the catalog, or search it",
		Args:    cobra.MaximumNArgs(1),
		RunE: withShop(func(cmd *cobra.Command, args []string, s *shop) error {
			f := cmd.Flags()
			size, _ := f.GetInt("size") //nolint:errcheck
			if len(args) == 1 {
				barrels, err := s.api.SearchBarrels(cmd.Context(), args[0], size)
				if err != nil {
					return err
				}
				printBarrels(cmd.OutOrStdout(), barrels)
				return nil
			}

			page, _ := f.GetInt("page") //nolint:errcheck
			var filter domain.BarrelFilter
			filter.OriginCountry, _ = f.GetString("origin") //nolint:errcheck
			filter.WoodType, _ = f.GetString("wood")        //nolint:errcheck
			filter.MinPrice, _ = f.GetFloat64("min-price")  //nolint:errcheck
			filter.MaxPrice, _ = f.GetFloat64("max-price")  //nolint:errcheck

			p, err := s.api.ListBarrels(cmd.Context(), page, size, filter)
			if err != nil {
				return err
			}
			printBarrels(cmd.OutOrStdout(), p.Items)
			fmt.Fprintln(cmd.OutOrStdout(), labelStyle.Render(fmt.Sprintf("page %d/%d, %d barrels", p.Page, max(p.Pages, 1), p.Total))) //nolint:errcheck
			return nil
		}),
	}
	f := cmd.Flags()
	f.Int("page", 1, "Page number")
	f.Int("size", 20, "Barrels per page")
	f.String("origin", "", "Filter by origin country")
	f.String("wood", "", "Filter by wood type")
	f.Float64("min-price", 0, "Minimum price in euros")
	f.Float64("max-price", 0, "Maximum price in euros")
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List origin countries and wood types",
		Args:  cobra.NoArgs,
		RunE: withShop(func(cmd *cobra.Command, _ []string, s *shop) error {
			origins, err := s.api.OriginCountries(cmd.Context())
			if err != nil {
				return err
			}
			woods, err := s.api.WoodTypes(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, labelStyle.Render("Origins")) //nolint:errcheck
			for _, o := range origins {
				fmt.Fprintln(w, "  "+o) //nolint:errcheck
			}
			fmt.Fprintln(w, labelStyle.Render("Wood types")) //nolint:errcheck
			for _, wt := range woods {
				fmt.Fprintln(w, "  "+wt) //nolint:errcheck
			}
			return nil
		}),
	}
}

func printBarrels(w io.Writer, barrels []domain.Barrel) {
	if len(barrels) == 0 {
		fmt.Fprintln(w, labelStyle.Render("No barrels found.")) //nolint:errcheck
		return
	}
	for _, b := range barrels {
		stock := okStyle.Render(fmt.Sprintf("%3d in stock", b.StockQuantity))
		if !b.InStock() {
			stock = badStyle.Render("out of stock")
		}
		fmt.Fprintf(w, "%s  %-32s %-14s %8s %12s  %s\n", //nolint:errcheck
			b.ID, truncate(b.Name, 32), truncate(b.OriginCountry, 14),
			fmt.Sprintf("%g L", float64(b.VolumeLiters)), euros(float64(b.Price)), stock)
	}
}
