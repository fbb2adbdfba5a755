package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/asquebay/bird-events-service/internal/model"
	"github.com/asquebay/bird-events-service/internal/ui"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List birds",
		Long:  "List birds known to the service, optionally filtered by a case-insensitive name substring.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			birds, err := opts.client().ListBirds(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list birds: %w", err)
			}
			return printBirds(cmd.OutOrStdout(), ui.FilterByName(birds, search))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "show only birds whose name contains this text")
	return cmd
}

func newAddCmd(opts *options) *cobra.Command {
	var bird model.NewBird

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bird",
		Long:  "Create a bird through POST /birds and print the stored record.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := opts.client().CreateBird(cmd.Context(), bird)
			if err != nil {
				return fmt.Errorf("failed to add bird: %w", err)
			}
			return printBirds(cmd.OutOrStdout(), []model.Bird{created})
		},
	}

	cmd.Flags().StringVar(&bird.Name, "name", "", "bird name")
	cmd.Flags().StringVar(&bird.Species, "species", "", "bird species")
	cmd.Flags().StringVar(&bird.Image, "image", "", "image URL")
	return cmd
}

func printBirds(w io.Writer, birds []model.Bird) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIES\tIMAGE")
	for _, b := range birds {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.ID, b.Name, b.Species, b.Image)
	}
	return tw.Flush()
}
