package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediadock/internal/config"
	"mediadock/internal/store"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}

	userCmd.AddCommand(newUserAddCommand(ctx))
	userCmd.AddCommand(newUserListCommand(ctx))
	userCmd.AddCommand(newUserActiveCommand(ctx, "disable", false))
	userCmd.AddCommand(newUserActiveCommand(ctx, "enable", true))
	userCmd.AddCommand(newUserSetImageCommand(ctx))
	return userCmd
}

func newUserAddCommand(ctx *commandContext) *cobra.Command {
	var withToken bool

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return errors.New("username is required")
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				user, err := st.CreateUser(cmd.Context(), username)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created user %s (id %d)\n", user.Username, user.ID)
				if !withToken {
					return nil
				}
				token, err := st.CreateToken(cmd.Context(), user.Username)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Token: %s\n", token.Key)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withToken, "token", false, "Also issue an API token")
	return cmd
}

func newUserListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				users, err := st.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, userViews(users))
				}
				out := cmd.OutOrStdout()
				if len(users) == 0 {
					fmt.Fprintln(out, "No users")
					return nil
				}
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{
						fmt.Sprintf("%d", u.ID),
						u.Username,
						yesNo(u.IsActive),
						valueOrDash(u.Image),
						u.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Username", "Active", "Image", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newUserActiveCommand(ctx *commandContext, verb string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <username>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				if err := st.SetUserActive(cmd.Context(), args[0], active); err != nil {
					return userError(args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %s %sd\n", args[0], verb)
				return nil
			})
		},
	}
}

func newUserSetImageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-image <username> [image]",
		Short: "Set or clear a user's profile image",
		Long: "Set a user's profile image to a stored name (images/<file>), a media path " +
			"or an absolute URL. Omit the image to clear it.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := ""
			if len(args) == 2 {
				image = strings.TrimSpace(args[1])
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				if err := st.SetUserImage(cmd.Context(), args[0], image); err != nil {
					return userError(args[0], err)
				}
				out := cmd.OutOrStdout()
				if image == "" {
					fmt.Fprintf(out, "Cleared profile image for %s\n", args[0])
				} else {
					fmt.Fprintf(out, "Profile image for %s set to %s\n", args[0], image)
				}
				return nil
			})
		},
	}
}

func newTokenCommand(ctx *commandContext) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
	}
	tokenCmd.AddCommand(&cobra.Command{
		Use:   "create <username>",
		Short: "Issue a new token, replacing any existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				token, err := issueToken(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token.Key)
				return nil
			})
		},
	})
	return tokenCmd
}

func issueToken(ctx context.Context, st *store.Store, username string) (*store.Token, error) {
	token, err := st.CreateToken(ctx, username)
	if err != nil {
		return nil, userError(username, err)
	}
	return token, nil
}

func userError(username string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("user %q not found", username)
	}
	return err
}

type userView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsActive  bool   `json:"is_active"`
	Image     string `json:"image"`
	CreatedAt string `json:"created_at"`
}

func userViews(users []*store.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, userView{
			ID:        u.ID,
			Username:  u.Username,
			IsActive:  u.IsActive,
			Image:     u.Image,
			CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
