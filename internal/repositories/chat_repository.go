package repositories

import (
	"context"
	"database/sql"

	"cleanlyBack/internal/models"
)

type ChatRepository struct {
	DB *sql.DB
}

// ThreadForJob returns the job's chat, creating it when the job has none
// yet. System messages about disputes should land somewhere even when
// the parties never talked.
func (r *ChatRepository) ThreadForJob(ctx context.Context, jobID int) (models.Chat, error) {
	var c models.Chat
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, job_id, customer_id, pro_id, created_at
		FROM chats
		WHERE job_id = ?
	`, jobID).Scan(&c.ID, &c.JobID, &c.CustomerID, &c.ProID, &c.CreatedAt)
	if err == nil {
		return c, nil
	}
	if err != sql.ErrNoRows {
		return models.Chat{}, err
	}

	var job models.Job
	err = r.DB.QueryRowContext(ctx,
		`SELECT id, customer_id, assigned_pro_id FROM jobs WHERE id = ?`, jobID).
		Scan(&job.ID, &job.CustomerID, &job.AssignedProID)
	if err == sql.ErrNoRows {
		return models.Chat{}, models.ErrJobNotFound
	}
	if err != nil {
		return models.Chat{}, err
	}

	proID := 0
	if job.AssignedProID != nil {
		proID = *job.AssignedProID
	}
	result, err := r.DB.ExecContext(ctx, `
		INSERT INTO chats (job_id, customer_id, pro_id, created_at)
		VALUES (?, ?, ?, NOW())
	`, jobID, job.CustomerID, proID)
	if err != nil {
		return models.Chat{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Chat{}, err
	}
	c = models.Chat{ID: int(id), JobID: jobID, CustomerID: job.CustomerID, ProID: proID}
	return c, nil
}

func (r *ChatRepository) InsertSystemMessage(ctx context.Context, chatID int, text string) (models.Message, error) {
	result, err := r.DB.ExecContext(ctx, `
		INSERT INTO messages (chat_id, sender_id, is_system, text, created_at)
		VALUES (?, 0, 1, ?, NOW())
	`, chatID, text)
	if err != nil {
		return models.Message{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Message{}, err
	}
	return models.Message{ID: int(id), ChatID: chatID, System: true, Text: text}, nil
}

func (r *ChatRepository) InsertMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	result, err := r.DB.ExecContext(ctx, `
		INSERT INTO messages (chat_id, sender_id, is_system, text, created_at)
		VALUES (?, ?, 0, ?, NOW())
	`, msg.ChatID, msg.SenderID, msg.Text)
	if err != nil {
		return models.Message{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Message{}, err
	}
	msg.ID = int(id)
	return msg, nil
}

// RecentChatIDs returns the pro's most recently active chats, newest first.
func (r *ChatRepository) RecentChatIDs(ctx context.Context, proID int, limit int) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id
		FROM chats c
		JOIN messages m ON m.chat_id = c.id
		WHERE c.pro_id = ?
		GROUP BY c.id
		ORDER BY MAX(m.created_at) DESC
		LIMIT ?
	`, proID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RecentMessages returns the last messages of a chat in chronological order.
func (r *ChatRepository) RecentMessages(ctx context.Context, chatID int, limit int) ([]models.Message, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, chat_id, sender_id, is_system, text, created_at
		FROM (
			SELECT id, chat_id, sender_id, is_system, text, created_at
			FROM messages
			WHERE chat_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		) latest
		ORDER BY created_at, id
	`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.System, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
