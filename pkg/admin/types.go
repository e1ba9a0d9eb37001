package admin

// Status is the lifecycle state of a resource collection.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// User represents a user resource.
type User struct {
	ID       int    `json:"id"       yaml:"id"`
	Name     string `json:"name"     yaml:"name"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email"    yaml:"email"`
}

// NewUser is the payload for creating a user.
type NewUser struct {
	Name     string `json:"name"     yaml:"name"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email"    yaml:"email"`
}

// UserUpdate is a partial update of a user. Nil fields are left untouched.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"     yaml:"name,omitempty"`
	Username *string `json:"username,omitempty" yaml:"username,omitempty"`
	Email    *string `json:"email,omitempty"    yaml:"email,omitempty"`
}

// Merge returns u with every non-zero field of patch applied.
func (u User) Merge(patch User) User {
	if patch.ID != 0 {
		u.ID = patch.ID
	}

	if patch.Name != "" {
		u.Name = patch.Name
	}

	if patch.Username != "" {
		u.Username = patch.Username
	}

	if patch.Email != "" {
		u.Email = patch.Email
	}

	return u
}

// Post represents a post resource. UserID references a User.
type Post struct {
	ID     int    `json:"id"     yaml:"id"`
	UserID int    `json:"userId" yaml:"userId"`
	Title  string `json:"title"  yaml:"title"`
	Body   string `json:"body"   yaml:"body"`
}

// NewPost is the payload for creating a post.
type NewPost struct {
	UserID int    `json:"userId" yaml:"userId"`
	Title  string `json:"title"  yaml:"title"`
	Body   string `json:"body"   yaml:"body"`
}

// PostUpdate is a partial update of a post. Nil fields are left untouched.
type PostUpdate struct {
	UserID *int    `json:"userId,omitempty" yaml:"userId,omitempty"`
	Title  *string `json:"title,omitempty"  yaml:"title,omitempty"`
	Body   *string `json:"body,omitempty"   yaml:"body,omitempty"`
}

// Merge returns p with every non-zero field of patch applied.
func (p Post) Merge(patch Post) Post {
	if patch.ID != 0 {
		p.ID = patch.ID
	}

	if patch.UserID != 0 {
		p.UserID = patch.UserID
	}

	if patch.Title != "" {
		p.Title = patch.Title
	}

	if patch.Body != "" {
		p.Body = patch.Body
	}

	return p
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}
