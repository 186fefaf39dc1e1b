package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scsmith60/messhall/internal/db"
	"github.com/scsmith60/messhall/internal/model"
)

type CommentRepository interface {
	ListComments(recipeID model.RecipeID) ([]model.Comment, error)
	AddComment(recipeID model.RecipeID, author model.UserID, body string) (*model.Comment, error)

	// DeleteComment removes a comment when requested by its author or
	// by the owner of the recipe it sits on.
	DeleteComment(id model.CommentID, requester model.UserID) error
}

type DBCommentRepository struct {
	db db.DB
}

func NewDBCommentRepository(db db.DB) *DBCommentRepository {
	return &DBCommentRepository{db: db}
}

func (r *DBCommentRepository) ListComments(recipeID model.RecipeID) ([]model.Comment, error) {
	rows, err := r.db.Query(
		`SELECT id, recipe_id, user_id, body, created_at FROM comments
		WHERE recipe_id = ? ORDER BY created_at`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.RecipeID, &c.Author, &c.Body, &c.CreatedDate); err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *DBCommentRepository) AddComment(recipeID model.RecipeID, author model.UserID, body string) (*model.Comment, error) {
	comment := &model.Comment{
		ID:          model.CommentID(uuid.New().String()),
		RecipeID:    recipeID,
		Author:      author,
		Body:        body,
		CreatedDate: time.Now().UTC(),
	}

	_, err := r.db.Exec(
		`INSERT INTO comments (id, recipe_id, user_id, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.RecipeID, comment.Author, comment.Body, comment.CreatedDate,
	)
	if err != nil {
		return nil, fmt.Errorf("error saving comment: %w", err)
	}

	repoLogger.Debug().Str("comment_id", string(comment.ID)).Str("recipe_id", string(recipeID)).Msg("Comment added")
	return comment, nil
}

func (r *DBCommentRepository) DeleteComment(id model.CommentID, requester model.UserID) error {
	var author, recipeOwner model.UserID
	row := r.db.QueryRow(
		`SELECT c.user_id, r.user_id FROM comments c
		JOIN recipes r ON r.id = c.recipe_id WHERE c.id = ?`,
		id,
	)
	if err := row.Scan(&author, &recipeOwner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("error scanning comment author: %w", err)
	}

	if requester != author && requester != recipeOwner {
		return fmt.Errorf("%w: comment %s", ErrNotOwner, id)
	}

	if _, err := r.db.Exec(`DELETE FROM comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	return nil
}
