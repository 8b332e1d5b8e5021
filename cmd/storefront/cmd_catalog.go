package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JuanAndresGH-hub/marketplace/internal/catalog"
	"github.com/JuanAndresGH-hub/marketplace/internal/models"
	"github.com/JuanAndresGH-hub/marketplace/internal/util"
)

var (
	productsQuery    string
	productsCategory string
	productsMaxPrice float64
	productsSort     string
	productsPage     int
	productsSize     int

	searchCountry string
	searchType    string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog with local filters applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.cart.LoadCatalog(ctx); err != nil {
				return err
			}
			if err := applyFilters(cmd, a.view); err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), a.view)
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Ask the backend for products by country or type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.cart.Search(ctx, searchCountry, searchType); err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), a.view)
			return nil
		})
	},
}

var favCmd = &cobra.Command{
	Use:   "fav [PRODUCT_ID]",
	Short: "Toggle a favorite, or list favorites without an argument",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, id := range a.view.Favorites() {
					fmt.Fprintln(out, id)
				}
				return nil
			}
			on, err := a.view.ToggleFavorite(ctx, models.ID(args[0]))
			if err != nil {
				return err
			}
			if on {
				fmt.Fprintf(out, "%s added to favorites\n", args[0])
			} else {
				fmt.Fprintf(out, "%s removed from favorites\n", args[0])
			}
			return nil
		})
	},
}

func init() {
	f := productsCmd.Flags()
	f.StringVarP(&productsQuery, "query", "q", "", "text to match in name, category or country")
	f.StringVar(&productsCategory, "category", catalog.AllCategories, "category to show")
	f.Float64Var(&productsMaxPrice, "max-price", -1, "upper price limit (default: highest price)")
	f.StringVar(&productsSort, "sort", string(catalog.SortRelevance), "relevancia, menor-precio or mayor-precio")
	f.IntVar(&productsPage, "page", 1, "page number")
	f.IntVar(&productsSize, "size", util.DefaultPageSize, "page size")

	searchCmd.Flags().StringVar(&searchCountry, "pais", "", "country of origin")
	searchCmd.Flags().StringVar(&searchType, "tipo", "", "product type")
}

func applyFilters(cmd *cobra.Command, vm *catalog.ViewModel) error {
	mode, err := catalog.ParseSortMode(productsSort)
	if err != nil {
		return err
	}
	vm.SetQuery(productsQuery)
	vm.SetCategory(productsCategory)
	vm.SetSort(mode)
	if cmd.Flags().Changed("max-price") {
		return vm.SetMaxPrice(productsMaxPrice)
	}
	return nil
}

func printProducts(w io.Writer, vm *catalog.ViewModel) {
	v := vm.View()
	fav := make(map[models.ID]bool, len(v.Favorites))
	for _, id := range v.Favorites {
		fav[id] = true
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCOUNTRY\tPRICE\tFAV")
	for _, p := range util.Page(v.Products, productsPage, productsSize) {
		mark := ""
		if fav[p.ID] {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f\t%s\n", p.ID, p.Name, p.Category, p.Country, p.Price, mark)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d of %d products; categories: %s\n", len(v.Products), v.TotalProducts, strings.Join(v.Categories, ", "))
}
