package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/forms"
	"github.com/fivetwenty-io/crudadmin/internal/pagination"
	"github.com/fivetwenty-io/crudadmin/internal/store"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// NewPostsCommand creates the posts command group.
func NewPostsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"post"},
		Short:   "Manage posts",
		Long:    "List, inspect, create, update and delete posts",
	}

	cmd.AddCommand(newPostsListCommand())
	cmd.AddCommand(newPostsGetCommand())
	cmd.AddCommand(newPostsCreateCommand())
	cmd.AddCommand(newPostsUpdateCommand())
	cmd.AddCommand(newPostsDeleteCommand())

	return cmd
}

// authoredPost is a post with its resolved author for listings.
type authoredPost struct {
	admin.Post `yaml:",inline"`

	Author string `json:"author" yaml:"author"`
}

func newPostsListCommand() *cobra.Command {
	var (
		page     int
		allPages bool
		userID   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		Long:  "List posts one page at a time, optionally only those of one author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var selected *int

			if cmd.Flags().Changed("user") {
				if userID <= 0 {
					return fmt.Errorf("%w: --user %d", constants.ErrInvalidID, userID)
				}

				selected = &userID
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := commandContext(cmd)
			opts := sess.storeOptions()
			posts := store.NewPosts(sess.client.Posts(), opts)
			users := store.NewUsers(sess.client.Users(), opts)

			err = posts.FilterByUser(ctx, selected)
			if err != nil {
				return fmt.Errorf("failed to list posts: %w", err)
			}

			// Author names are best effort.
			err = users.Load(ctx)
			if err != nil {
				sess.logger.Debug("failed to load authors", zap.Error(err))
			}

			return printPosts(newPrinter(cmd), withAuthors(posts.Filtered(), users.Names()), page, allPages)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().BoolVar(&allPages, "all", false, "show every post")
	cmd.Flags().IntVarP(&userID, "user", "u", 0, "only posts of this user id")

	return cmd
}

func withAuthors(posts []admin.Post, names map[int]string) []authoredPost {
	rows := make([]authoredPost, 0, len(posts))

	for _, post := range posts {
		author, ok := names[post.UserID]
		if !ok {
			author = fmt.Sprintf(constants.UnknownUserFormat, post.UserID)
		}

		rows = append(rows, authoredPost{Post: post, Author: author})
	}

	return rows
}

func printPosts(p *printer, posts []authoredPost, page int, allPages bool) error {
	result := pagination.PaginateSize(posts, 1, max(len(posts), 1))
	if !allPages {
		result = pagination.Paginate(posts, page)
	}

	err := p.print(result.Items, func(t *tablewriter.Table) {
		t.Header("ID", "Author", "Title", "Body")

		for _, post := range result.Items {
			_ = t.Append([]string{strconv.Itoa(post.ID), post.Author, post.Title, truncate(post.Body)})
		}
	})
	if err != nil {
		return err
	}

	if !allPages {
		p.line("Page %d of %d (%d posts)", result.Number, result.TotalPages, result.Total)
	}

	return nil
}

func newPostsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get POST_ID",
		Short: "Get post details",
		Long:  "Display a single post",
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

			post, err := sess.client.Posts().Get(commandContext(cmd), id)
			if err != nil {
				return fmt.Errorf("failed to get post: %w", err)
			}

			return printPost(newPrinter(cmd), post)
		},
	}
}

func printPost(p *printer, post *admin.Post) error {
	return p.properties(post, [][]string{
		{"ID", strconv.Itoa(post.ID)},
		{"User ID", strconv.Itoa(post.UserID)},
		{"Title", post.Title},
		{"Body", post.Body},
	})
}

type postFlags struct {
	userID int
	title  string
	body   string
}

func (f *postFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.userID, "user-id", 0, "author user id")
	cmd.Flags().StringVar(&f.title, "title", "", "post title")
	cmd.Flags().StringVar(&f.body, "body", "", "post content")
}

// apply copies the flags that were set onto form.
func (f *postFlags) apply(cmd *cobra.Command, form *forms.PostForm) bool {
	changed := false

	if cmd.Flags().Changed("user-id") {
		form.UserID = f.userID
		changed = true
	}

	if cmd.Flags().Changed("title") {
		form.Title = f.title
		changed = true
	}

	if cmd.Flags().Changed("body") {
		form.Body = f.body
		changed = true
	}

	return changed
}

func newPostsCreateCommand() *cobra.Command {
	var flags postFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Long:  "Validate and create a new post. The author defaults to user 1.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := forms.NewPostForm(nil, nil)
			flags.apply(cmd, form)

			if !form.Validate() {
				return fieldErrors(form.Errors)
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			return submitPost(cmd, sess, form, constants.OperationCreate)
		},
	}

	flags.register(cmd)

	return cmd
}

func newPostsUpdateCommand() *cobra.Command {
	var flags postFlags

	cmd := &cobra.Command{
		Use:   "update POST_ID",
		Short: "Update a post",
		Long:  "Validate and update the given fields of a post",
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

			current, err := sess.client.Posts().Get(commandContext(cmd), id)
			if err != nil {
				return fmt.Errorf("failed to get post: %w", err)
			}

			form := forms.NewPostForm(current, nil)
			if !flags.apply(cmd, form) {
				return constants.ErrNothingToUpdate
			}

			if !form.Validate() {
				return fieldErrors(form.Errors)
			}

			return submitPost(cmd, sess, form, constants.OperationUpdate)
		},
	}

	flags.register(cmd)

	return cmd
}

func submitPost(cmd *cobra.Command, sess *session, form *forms.PostForm, operation string) error {
	posts := store.NewPosts(sess.client.Posts(), sess.storeOptions())
	form.Logger = sess.adminLogger()

	var saved *admin.Post

	ok := form.Submit(commandContext(cmd), func(ctx context.Context, f *forms.PostForm) error {
		var err error

		if f.Mode == forms.ModeUpdate {
			saved, err = posts.Update(ctx, f.ID, f.Update())
		} else {
			saved, err = posts.Create(ctx, f.NewPost())
		}

		return err
	})
	if !ok {
		return submitError(operation+" post", form.SubmitErr)
	}

	return printPost(newPrinter(cmd), saved)
}

func newPostsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete POST_ID",
		Short: "Delete a post",
		Long:  "Delete a post after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Really delete post %d?", id)) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

				return nil
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			err = store.NewPosts(sess.client.Posts(), sess.storeOptions()).Remove(commandContext(cmd), id)
			if err != nil {
				return fmt.Errorf("failed to delete post: %w", err)
			}

			return newPrinter(cmd).result("Deleted", "post", id)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}
