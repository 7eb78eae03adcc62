package models

import "time"

type CommentInput struct {
	Text     string `json:"commentText"`
	ParentID *int   `json:"parentId"`
}

type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"comment_text"`
	ParentID  *int      `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}
