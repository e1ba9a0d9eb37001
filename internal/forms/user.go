package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

var userContent = map[Mode]Content{
	ModeCreate: {
		Title:      "Create New User",
		Subtitle:   "Add a new team member to the platform",
		SubmitText: "Create User",
		SubmitIcon: "👤",
	},
	ModeUpdate: {
		Title:      "Edit User",
		Subtitle:   "Update user information",
		SubmitText: "Update User",
		SubmitIcon: "💾",
	},
}

// UserForm holds the user form fields.
type UserForm struct {
	guard `validate:"-"`

	Mode     Mode   `json:"-"        validate:"-"`
	ID       int    `json:"-"        validate:"-"`
	Name     string `json:"name"     validate:"required,min=3"`
	Username string `json:"username" validate:"required,min=3,username"`
	Email    string `json:"email"    validate:"required,max=254,emailaddr"`

	Errors FieldErrors `json:"-" validate:"-"`
	// SubmitErr is the message of the last failed submission.
	SubmitErr string       `json:"-" validate:"-"`
	Logger    admin.Logger `json:"-" validate:"-"`
}

// NewUserForm seeds a form from user. A nil user gives an empty create form.
func NewUserForm(user *admin.User) *UserForm {
	if user == nil {
		return &UserForm{Mode: ModeCreate}
	}

	return &UserForm{
		Mode:     ModeUpdate,
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
	}
}

// Content returns the headings for the form mode.
func (f *UserForm) Content() Content {
	return userContent[f.Mode]
}

// Normalize trims every field.
func (f *UserForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

// Validate normalizes and validates the form, recording field errors.
func (f *UserForm) Validate() bool {
	f.Normalize()
	f.Errors = GetValidator().Struct(f, userMessage)

	return len(f.Errors) == 0
}

// NewUser returns the create payload.
func (f *UserForm) NewUser() *admin.NewUser {
	return &admin.NewUser{
		Name:     f.Name,
		Username: f.Username,
		Email:    f.Email,
	}
}

// Update returns the update payload with every field set.
func (f *UserForm) Update() *admin.UserUpdate {
	return &admin.UserUpdate{
		Name:     admin.StringPtr(f.Name),
		Username: admin.StringPtr(f.Username),
		Email:    admin.StringPtr(f.Email),
	}
}

// Submit validates the form and calls fn. It returns false without calling
// fn when the form is invalid or a submission is already running; the latter
// leaves every field, Errors and SubmitErr as they were. A failing fn is
// logged and recorded in SubmitErr.
func (f *UserForm) Submit(ctx context.Context, fn func(context.Context, *UserForm) error) bool {
	err := f.run(ctx, f.Validate, f.Logger, "user", func(ctx context.Context) error {
		return fn(ctx, f)
	})

	return submitResult(err, &f.SubmitErr, "Failed to save user")
}

func userMessage(field, tag, param string) string {
	switch field {
	case "name":
		return fmt.Sprintf("At least %d characters", constants.NameMinLength)
	case "username":
		if tag == "username" {
			return "Only letters, numbers, and underscore"
		}

		return fmt.Sprintf("At least %d characters", constants.UsernameMinLength)
	case "email":
		if tag == "max" {
			return fmt.Sprintf("At most %d characters", constants.EmailMaxLength)
		}

		return "Enter a valid email address"
	default:
		return fmt.Sprintf("failed %s=%s", tag, param)
	}
}
