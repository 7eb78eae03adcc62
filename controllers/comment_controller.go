package controllers

import (
	"database/sql"
	"strconv"
	"strings"

	"survivor-backend/database"
	"survivor-backend/models"

	"github.com/gofiber/fiber/v2"
)

// ListComments returns the whole board oldest-first; the client threads by
// parent_id.
func ListComments(c *fiber.Ctx) error {
	rows, err := database.DB.Query(`
		SELECT id, user_id, username, comment_text, parent_id, created_at
		FROM comments
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch comments"})
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		var parent sql.NullInt32
		if err := rows.Scan(&comment.ID, &comment.UserID, &comment.Username, &comment.Text, &parent, &comment.CreatedAt); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse comments"})
		}
		if parent.Valid {
			v := int(parent.Int32)
			comment.ParentID = &v
		}
		comments = append(comments, comment)
	}

	return c.JSON(comments)
}

func AddComment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)
	username := c.Locals("username").(string)

	var input models.CommentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Comment text is required"})
	}

	if input.ParentID != nil {
		var exists bool
		err := database.DB.QueryRow(`
			SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)
		`, *input.ParentID).Scan(&exists)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to validate parent comment"})
		}
		if !exists {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Parent comment does not exist"})
		}
	}

	var comment models.Comment
	err := database.DB.QueryRow(`
		INSERT INTO comments (user_id, username, comment_text, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, userID, username, input.Text, input.ParentID).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to post comment"})
	}

	comment.UserID = userID
	comment.Username = username
	comment.Text = input.Text
	comment.ParentID = input.ParentID

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment removes the caller's own comment (replies cascade).
func DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	commentID, err := strconv.Atoi(c.Params("id"))
	if err != nil || commentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid comment id"})
	}

	result, err := database.DB.Exec(`
		DELETE FROM comments WHERE id = $1 AND user_id = $2
	`, commentID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete comment"})
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found or not yours"})
	}

	return c.JSON(fiber.Map{"ok": true})
}
