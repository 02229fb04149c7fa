package domain

// Comment is a reply attached to a post.
type Comment struct {
	ID             string `json:"id"`
	PostID         string `json:"post_id"`
	Body           string `json:"body"`
	AuthorID       string `json:"author_id"`
	AuthorUsername string `json:"author_username"`
	Audit
	SoftDelete
}

// OwnerID returns the identity allowed to mutate the comment besides admins.
func (c *Comment) OwnerID() string { return c.AuthorID }
