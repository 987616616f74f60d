package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mediadock/internal/api"
	"mediadock/internal/config"
	"mediadock/internal/images"
	"mediadock/internal/logging"
	"mediadock/internal/store"
)

func newImagesCommand(ctx *commandContext) *cobra.Command {
	imagesCmd := &cobra.Command{
		Use:   "images",
		Short: "Inspect and manage stored images",
	}

	imagesCmd.AddCommand(newImagesListCommand(ctx))
	imagesCmd.AddCommand(newImagesShowCommand(ctx))
	imagesCmd.AddCommand(newImagesAddCommand(ctx))
	imagesCmd.AddCommand(newImagesRemoveCommand(ctx))
	return imagesCmd
}

// withImages opens the store and wraps it in an image service.
func (c *commandContext) withImages(fn func(*config.Config, *images.Service) error) error {
	return c.withStore(func(cfg *config.Config, st *store.Store) error {
		return fn(cfg, images.NewService(st, cfg.Paths.MediaRoot, logging.NewNop(), nil))
	})
}

// imageURLBuilder builds absolute file URLs for CLI output. Without a public
// base URL the storage bind address is used.
func imageURLBuilder(cfg *config.Config) api.URLBuilder {
	base := cfg.Storage.PublicBaseURL
	if base == "" && cfg.Storage.Bind != "" {
		base = "http://" + cfg.Storage.Bind
	}
	return func(stored string) string {
		return api.ImageURL(base, cfg.Storage.MediaURL, stored)
	}
}

func newImagesListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored images, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withImages(func(cfg *config.Config, svc *images.Service) error {
				items, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, api.FromImages(items, imageURLBuilder(cfg)))
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No images")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, img := range items {
					rows = append(rows, []string{
						img.ID,
						img.Title,
						img.File,
						humanize.IBytes(uint64(img.Size)),
						humanize.Time(img.UploadedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "File", "Size", "Uploaded"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newImagesShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withImages(func(cfg *config.Config, svc *images.Service) error {
				img, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return imageError(args[0], err)
				}
				view := api.FromImage(img, imageURLBuilder(cfg))
				if asJSON {
					return writeJSON(cmd, view)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:            %s\n", view.ID)
				fmt.Fprintf(out, "Title:         %s\n", view.Title)
				fmt.Fprintf(out, "File:          %s\n", view.Filename)
				fmt.Fprintf(out, "Original name: %s\n", valueOrDash(view.OriginalFilename))
				fmt.Fprintf(out, "Content type:  %s\n", valueOrDash(view.ContentType))
				fmt.Fprintf(out, "Size:          %s (%d bytes)\n", humanize.IBytes(uint64(view.Size)), view.Size)
				fmt.Fprintf(out, "Uploaded:      %s\n", view.UploadedAt)
				fmt.Fprintf(out, "URL:           %s\n", view.URL)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newImagesAddCommand(ctx *commandContext) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Store a local file as an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			return ctx.withImages(func(cfg *config.Config, svc *images.Service) error {
				img, err := svc.Upload(cmd.Context(), images.Upload{
					Title:    strings.TrimSpace(title),
					Filename: filepath.Base(path),
					Body:     file,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Stored %s as %s (%s)\n", img.OriginalFilename, img.ID, humanize.IBytes(uint64(img.Size)))
				fmt.Fprintln(out, imageURLBuilder(cfg)(img.File))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Image title (defaults to the file name)")
	return cmd
}

func newImagesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Delete images and their files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withImages(func(_ *config.Config, svc *images.Service) error {
				out := cmd.OutOrStdout()
				var failed []string
				for _, id := range args {
					if err := svc.Delete(cmd.Context(), id); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, imageError(id, err))
						failed = append(failed, id)
						continue
					}
					fmt.Fprintf(out, "Deleted %s\n", id)
				}
				if len(failed) > 0 {
					return fmt.Errorf("failed to delete %d of %d images", len(failed), len(args))
				}
				return nil
			})
		},
	}
}

func imageError(id string, err error) error {
	if errors.Is(err, images.ErrNotFound) {
		return fmt.Errorf("image %q not found", id)
	}
	return err
}
