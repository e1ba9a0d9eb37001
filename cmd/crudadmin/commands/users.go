package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/forms"
	"github.com/fivetwenty-io/crudadmin/internal/pagination"
	"github.com/fivetwenty-io/crudadmin/internal/store"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage users",
		Long:    "List, inspect, create, update and delete users",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersCreateCommand())
	cmd.AddCommand(newUsersUpdateCommand())
	cmd.AddCommand(newUsersDeleteCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	var (
		page     int
		allPages bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List users one page at a time, or all of them with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			users := store.NewUsers(sess.client.Users(), sess.storeOptions())

			err = users.Load(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return printUsers(newPrinter(cmd), users.Items(), page, allPages)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().BoolVar(&allPages, "all", false, "show every user")

	return cmd
}

func printUsers(p *printer, users []admin.User, page int, allPages bool) error {
	result := pagination.PaginateSize(users, 1, max(len(users), 1))
	if !allPages {
		result = pagination.Paginate(users, page)
	}

	err := p.print(result.Items, func(t *tablewriter.Table) {
		t.Header("ID", "Name", "Username", "Email")

		for _, u := range result.Items {
			_ = t.Append([]string{strconv.Itoa(u.ID), u.Name, u.Username, u.Email})
		}
	})
	if err != nil {
		return err
	}

	if !allPages {
		p.line("Page %d of %d (%d users)", result.Number, result.TotalPages, result.Total)
	}

	return nil
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user details",
		Long:  "Display a single user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			user, err := sess.client.Users().Get(commandContext(cmd), id)
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			return printUser(newPrinter(cmd), user)
		},
	}
}

func printUser(p *printer, user *admin.User) error {
	return p.properties(user, [][]string{
		{"ID", strconv.Itoa(user.ID)},
		{"Name", user.Name},
		{"Username", user.Username},
		{"Email", user.Email},
	})
}

type userFlags struct {
	name     string
	username string
	email    string
}

func (f *userFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "full name")
	cmd.Flags().StringVar(&f.username, "username", "", "username (letters, numbers and underscore)")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
}

// apply copies the flags that were set onto form.
func (f *userFlags) apply(cmd *cobra.Command, form *forms.UserForm) bool {
	changed := false

	if cmd.Flags().Changed("name") {
		form.Name = f.name
		changed = true
	}

	if cmd.Flags().Changed("username") {
		form.Username = f.username
		changed = true
	}

	if cmd.Flags().Changed("email") {
		form.Email = f.email
		changed = true
	}

	return changed
}

func newUsersCreateCommand() *cobra.Command {
	var flags userFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Validate and create a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := forms.NewUserForm(nil)
			flags.apply(cmd, form)

			if !form.Validate() {
				return fieldErrors(form.Errors)
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			return submitUser(cmd, sess, form, constants.OperationCreate)
		},
	}

	flags.register(cmd)

	return cmd
}

func newUsersUpdateCommand() *cobra.Command {
	var flags userFlags

	cmd := &cobra.Command{
		Use:   "update USER_ID",
		Short: "Update a user",
		Long:  "Validate and update the given fields of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			current, err := sess.client.Users().Get(commandContext(cmd), id)
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			form := forms.NewUserForm(current)
			if !flags.apply(cmd, form) {
				return constants.ErrNothingToUpdate
			}

			if !form.Validate() {
				return fieldErrors(form.Errors)
			}

			return submitUser(cmd, sess, form, constants.OperationUpdate)
		},
	}

	flags.register(cmd)

	return cmd
}

func submitUser(cmd *cobra.Command, sess *session, form *forms.UserForm, operation string) error {
	users := store.NewUsers(sess.client.Users(), sess.storeOptions())
	form.Logger = sess.adminLogger()

	var saved *admin.User

	ok := form.Submit(commandContext(cmd), func(ctx context.Context, f *forms.UserForm) error {
		var err error

		if f.Mode == forms.ModeUpdate {
			saved, err = users.Update(ctx, f.ID, f.Update())
		} else {
			saved, err = users.Create(ctx, f.NewUser())
		}

		return err
	})
	if !ok {
		return submitError(operation+" user", form.SubmitErr)
	}

	return printUser(newPrinter(cmd), saved)
}

func newUsersDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete USER_ID",
		Short: "Delete a user",
		Long:  "Delete a user after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Really delete user %d?", id)) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

				return nil
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			err = store.NewUsers(sess.client.Users(), sess.storeOptions()).Remove(commandContext(cmd), id)
			if err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}

			return newPrinter(cmd).result("Deleted", "user", id)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}
