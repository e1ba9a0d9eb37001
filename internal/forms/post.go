package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// DefaultUserID is the author preselected when no user list is available.
const DefaultUserID = 1

var postContent = map[Mode]Content{
	ModeCreate: {
		Title:      "Create New Post",
		Subtitle:   "Share your thoughts with the world",
		SubmitText: "Create Post",
		SubmitIcon: "🚀",
	},
	ModeUpdate: {
		Title:      "Edit Post",
		Subtitle:   "Update your post content",
		SubmitText: "Update Post",
		SubmitIcon: "💾",
	},
}

// PostForm holds the post form fields.
type PostForm struct {
	guard `validate:"-"`

	Mode   Mode   `json:"-"      validate:"-"`
	ID     int    `json:"-"      validate:"-"`
	UserID int    `json:"userId" validate:"gt=0"`
	Title  string `json:"title"  validate:"required"`
	Body   string `json:"body"   validate:"required"`

	Errors    FieldErrors  `json:"-" validate:"-"`
	SubmitErr string       `json:"-" validate:"-"`
	Logger    admin.Logger `json:"-" validate:"-"`
}

// NewPostForm seeds a form from post. A nil post gives a create form whose
// author is the first of users, or DefaultUserID.
func NewPostForm(post *admin.Post, users []admin.User) *PostForm {
	if post == nil {
		userID := DefaultUserID
		if len(users) > 0 {
			userID = users[0].ID
		}

		return &PostForm{Mode: ModeCreate, UserID: userID}
	}

	return &PostForm{
		Mode:   ModeUpdate,
		ID:     post.ID,
		UserID: post.UserID,
		Title:  post.Title,
		Body:   post.Body,
	}
}

// Content returns the headings for the form mode.
func (f *PostForm) Content() Content {
	return postContent[f.Mode]
}

// Normalize trims the text fields.
func (f *PostForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Body = strings.TrimSpace(f.Body)
}

// Validate normalizes and validates the form, recording field errors.
func (f *PostForm) Validate() bool {
	f.Normalize()
	f.Errors = GetValidator().Struct(f, postMessage)

	return len(f.Errors) == 0
}

// NewPost returns the create payload.
func (f *PostForm) NewPost() *admin.NewPost {
	return &admin.NewPost{
		UserID: f.UserID,
		Title:  f.Title,
		Body:   f.Body,
	}
}

// Update returns the update payload with every field set.
func (f *PostForm) Update() *admin.PostUpdate {
	return &admin.PostUpdate{
		UserID: admin.IntPtr(f.UserID),
		Title:  admin.StringPtr(f.Title),
		Body:   admin.StringPtr(f.Body),
	}
}

// Submit validates the form and calls fn. See UserForm.Submit.
func (f *PostForm) Submit(ctx context.Context, fn func(context.Context, *PostForm) error) bool {
	err := f.run(ctx, f.Validate, f.Logger, "post", func(ctx context.Context) error {
		return fn(ctx, f)
	})

	return submitResult(err, &f.SubmitErr, "Failed to save post")
}

func postMessage(field, tag, param string) string {
	switch field {
	case "userId":
		return "Select an author"
	case "title":
		return "Title is required"
	case "body":
		return "Content is required"
	default:
		return fmt.Sprintf("failed %s=%s", tag, param)
	}
}
