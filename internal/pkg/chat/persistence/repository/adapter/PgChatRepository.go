package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/domain"
	repository "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/persistence/repository/port"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

// GetOrCreateConversation relies on the unique expression index over
// (user_id, type, COALESCE(booking_id, -1), COALESCE(store_id, -1)) so that
// concurrent first-contact requests for the same tuple serialize in the
// database instead of racing a check-then-insert. The no-op DO UPDATE makes
// the existing row come back through RETURNING.
func (r *PgChatRepository) GetOrCreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.conversation (user_id, type, booking_id, store_id)
		VALUES ($1::uuid, $2, $3, $4)
		ON CONFLICT (user_id, type, COALESCE(booking_id, -1), COALESCE(store_id, -1))
		DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id::text, created_at, updated_at
	`, c.UserID, c.Type, c.BookingID, c.StoreID).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PgChatRepository) GetConversation(ctx context.Context, id string) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	var c chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, type, user_id::text, booking_id, store_id, created_at, updated_at
		FROM chat.conversation
		WHERE id = $1::uuid
	`, id).Scan(&c.ID, &c.Type, &c.UserID, &c.BookingID, &c.StoreID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, chat.ErrConversationNotFound
	}
	if err != nil {
		return chat.Conversation{}, err
	}
	return c, nil
}

// ListConversationsByUser fetches conversations, last messages and unread
// tallies in one round trip: a lateral join picks each conversation's newest
// message, an aggregate subquery counts unread rows. Cost stays linear in
// the number of conversations.
func (r *PgChatRepository) ListConversationsByUser(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.type, c.user_id::text, c.booking_id, c.store_id, c.created_at, c.updated_at,
		       lm.id::text, lm.sender_id::text, lm.sender_name, lm.message, lm.is_read, lm.created_at,
		       COALESCE(un.unread, 0)
		FROM chat.conversation c
		LEFT JOIN LATERAL (
			SELECT m.id, m.sender_id, u.full_name AS sender_name, m.message, m.is_read, m.created_at
			FROM chat.message m
			JOIN chat.app_user u ON u.id = m.sender_id
			WHERE m.conversation_id = c.id
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT 1
		) lm ON true
		LEFT JOIN (
			SELECT conversation_id, COUNT(*) AS unread
			FROM chat.message
			WHERE is_read = false AND sender_id <> $1::uuid
			GROUP BY conversation_id
		) un ON un.conversation_id = c.id
		WHERE c.user_id = $1::uuid
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []chat.ConversationSummary
	for rows.Next() {
		var (
			s         chat.ConversationSummary
			lmID      *string
			lmSender  *string
			lmName    *string
			lmBody    *string
			lmRead    *bool
			lmCreated *time.Time
		)
		if err := rows.Scan(
			&s.ID, &s.Type, &s.UserID, &s.BookingID, &s.StoreID, &s.CreatedAt, &s.UpdatedAt,
			&lmID, &lmSender, &lmName, &lmBody, &lmRead, &lmCreated,
			&s.UnreadCount,
		); err != nil {
			return nil, err
		}
		if lmID != nil {
			s.LastMessage = &chat.Message{
				ID:             *lmID,
				ConversationID: s.ID,
				SenderID:       *lmSender,
				SenderName:     *lmName,
				Body:           *lmBody,
				IsRead:         *lmRead,
				CreatedAt:      *lmCreated,
			}
		}
		summaries = append(summaries, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return summaries, nil
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if r == nil || r.pool == nil {
		return chat.Message{}, errors.New("PgChatRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return chat.Message{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, message, is_read)
		VALUES ($1::uuid, $2::uuid, $3, false)
		RETURNING id::text, created_at
	`, m.ConversationID, m.SenderID, m.Body).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return chat.Message{}, err
	}

	// Touch: conversation list ordering follows last activity.
	if _, err := tx.Exec(ctx,
		"UPDATE chat.conversation SET updated_at = now() WHERE id = $1::uuid",
		m.ConversationID,
	); err != nil {
		return chat.Message{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT m.id::text, m.conversation_id::text, m.sender_id::text, u.full_name, m.message, m.is_read, m.created_at
		FROM chat.message m
		JOIN chat.app_user u ON u.id = m.sender_id
		WHERE m.conversation_id = $1::uuid
		ORDER BY m.created_at ASC, m.id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderName, &m.Body, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgChatRepository) MarkConversationRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET is_read = true
		WHERE conversation_id = $1::uuid AND sender_id <> $2::uuid AND is_read = false
	`, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgChatRepository) CountUnreadForUser(ctx context.Context, userID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM chat.message m
		JOIN chat.conversation c ON c.id = m.conversation_id
		WHERE c.user_id = $1::uuid AND m.is_read = false AND m.sender_id <> $1::uuid
	`, userID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
