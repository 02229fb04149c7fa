package domain

// Post is a blog article owned by its author.
type Post struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	AuthorID       string `json:"author_id"`
	AuthorUsername string `json:"author_username"`
	Audit
	SoftDelete
}

// OwnerID returns the identity allowed to mutate the post besides admins.
func (p *Post) OwnerID() string { return p.AuthorID }
