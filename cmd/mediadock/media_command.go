package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediadock/internal/mediaurl"
)

func newMediaCommand(ctx *commandContext) *cobra.Command {
	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "Media URL utilities",
	}

	var stored bool
	resolveCmd := &cobra.Command{
		Use:   "resolve <value>",
		Short: "Show the URL a stored media reference is served from",
		Long: "Normalize a stored media reference and resolve it against the local media " +
			"root, falling back to the storage origin when the file is missing locally. " +
			"With --stored the value is treated as a file field name (images/<file>).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			normalizer := mediaurl.Normalizer{Prefix: cfg.Storage.MediaURL}
			binder := mediaurl.Binder{Resolver: mediaurl.Resolver{
				Normalizer: normalizer,
				MediaRoot:  cfg.Paths.MediaRoot,
				Origin:     cfg.Web.StorageOrigin,
			}}

			var src mediaurl.Source = mediaurl.Text(args[0])
			if stored {
				src = mediaurl.FieldFile{Name: args[0], BaseURL: cfg.Storage.MediaURL}.Source()
			}

			out := cmd.OutOrStdout()
			holder := binder.Holder(src)
			if holder == nil {
				fmt.Fprintln(out, "No image")
				return nil
			}
			if !stored {
				fmt.Fprintf(out, "Normalized: %s\n", normalizer.Normalize(args[0]))
			}
			fmt.Fprintf(out, "Served:     %s\n", holder.URL)
			if strings.TrimSpace(cfg.Web.StorageOrigin) == "" {
				fmt.Fprintln(out, "Remote fallback disabled")
			}
			return nil
		},
	}
	resolveCmd.Flags().BoolVar(&stored, "stored", false, "Treat the value as a stored file name")

	mediaCmd.AddCommand(resolveCmd)
	return mediaCmd
}
