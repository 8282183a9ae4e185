package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/folio/internal/assets"
)

func (c *cli) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Store an image and print the path to use as a card img",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			store, err := assets.NewStore(cmd.Context(), c.cfg.Assets)
			if err != nil {
				return err
			}

			url, err := assets.NewUploader(store, c.cfg.Assets.MaxBytes).Upload(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), url)
			return nil
		},
	}
}
