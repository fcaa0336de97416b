package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quillhq/quill/pkg/quill"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements quill.Repository using PostgreSQL. Field schemas and
// content field values are stored as JSONB; uniqueness invariants live in
// unique indexes and are translated back to domain sentinels by constraint
// name.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) quill.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) quill.Repository {
	return &Repository{db: pool}
}

// mapUniqueViolation translates a 23505 into the domain sentinel matching the
// violated constraint. Constraint names are set in the migrations.
func mapUniqueViolation(pgErr *pgconn.PgError) error {
	switch {
	case strings.Contains(pgErr.ConstraintName, "actors"):
		return quill.ErrActorExists
	case strings.Contains(pgErr.ConstraintName, "content_types"):
		return quill.ErrContentTypeSlugTaken
	case strings.Contains(pgErr.ConstraintName, "contents"):
		return quill.ErrSlugTaken
	}
	return fmt.Errorf("duplicate entry: %s", pgErr.ConstraintName)
}

func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return mapUniqueViolation(pgErr)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Actor operations

func (r *Repository) CreateActor(ctx context.Context, actor *quill.Actor) error {
	query := `
		INSERT INTO actors (id, handle, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		actor.ID, actor.Handle, actor.Email, actor.PasswordHash,
		actor.Role, actor.CreatedAt, actor.UpdatedAt)
	if err != nil {
		return handlePostgresError("create actor", err)
	}
	return nil
}

const actorColumns = `id, handle, email, password_hash, role, created_at, updated_at`

func scanActor(row pgx.Row) (*quill.Actor, error) {
	var actor quill.Actor
	err := row.Scan(&actor.ID, &actor.Handle, &actor.Email, &actor.PasswordHash,
		&actor.Role, &actor.CreatedAt, &actor.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quill.ErrActorNotFound
		}
		return nil, err
	}
	return &actor, nil
}

func (r *Repository) GetActor(ctx context.Context, id uuid.UUID) (*quill.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM actors WHERE id = $1`
	return scanActor(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetActorByEmail(ctx context.Context, email string) (*quill.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM actors WHERE lower(email) = lower($1)`
	return scanActor(r.db.QueryRow(ctx, query, email))
}

func (r *Repository) GetActorByHandle(ctx context.Context, handle string) (*quill.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM actors WHERE handle = $1`
	return scanActor(r.db.QueryRow(ctx, query, handle))
}

func (r *Repository) ListActors(ctx context.Context) ([]*quill.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM actors ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actors []*quill.Actor
	for rows.Next() {
		var actor quill.Actor
		if err := rows.Scan(&actor.ID, &actor.Handle, &actor.Email, &actor.PasswordHash,
			&actor.Role, &actor.CreatedAt, &actor.UpdatedAt); err != nil {
			return nil, err
		}
		actors = append(actors, &actor)
	}
	return actors, rows.Err()
}

// Content type operations

func (r *Repository) CreateContentType(ctx context.Context, ct *quill.ContentType) error {
	fields, err := json.Marshal(ct.Fields)
	if err != nil {
		return fmt.Errorf("marshal field schemas: %w", err)
	}

	query := `
		INSERT INTO content_types (id, name, slug, description, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		ct.ID, ct.Name, ct.Slug, ct.Description, fields, ct.CreatedAt, ct.UpdatedAt)
	if err != nil {
		return handlePostgresError("create content type", err)
	}
	return nil
}

const contentTypeColumns = `id, name, slug, description, fields, created_at, updated_at`

func scanContentType(row pgx.Row) (*quill.ContentType, error) {
	var ct quill.ContentType
	var fields []byte
	err := row.Scan(&ct.ID, &ct.Name, &ct.Slug, &ct.Description, &fields,
		&ct.CreatedAt, &ct.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quill.ErrContentTypeNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(fields, &ct.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal field schemas: %w", err)
	}
	return &ct, nil
}

func (r *Repository) GetContentType(ctx context.Context, id uuid.UUID) (*quill.ContentType, error) {
	query := `SELECT ` + contentTypeColumns + ` FROM content_types WHERE id = $1`
	return scanContentType(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetContentTypeBySlug(ctx context.Context, slug string) (*quill.ContentType, error) {
	query := `SELECT ` + contentTypeColumns + ` FROM content_types WHERE slug = $1`
	return scanContentType(r.db.QueryRow(ctx, query, slug))
}

func (r *Repository) ListContentTypes(ctx context.Context) ([]*quill.ContentType, error) {
	query := `SELECT ` + contentTypeColumns + ` FROM content_types ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*quill.ContentType
	for rows.Next() {
		var ct quill.ContentType
		var fields []byte
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Slug, &ct.Description, &fields,
			&ct.CreatedAt, &ct.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fields, &ct.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal field schemas: %w", err)
		}
		types = append(types, &ct)
	}
	return types, rows.Err()
}

func (r *Repository) UpdateContentType(ctx context.Context, ct *quill.ContentType) error {
	fields, err := json.Marshal(ct.Fields)
	if err != nil {
		return fmt.Errorf("marshal field schemas: %w", err)
	}

	query := `
		UPDATE content_types SET
			name = $2, slug = $3, description = $4, fields = $5, updated_at = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		ct.ID, ct.Name, ct.Slug, ct.Description, fields, ct.UpdatedAt)
	if err != nil {
		return handlePostgresError("update content type", err)
	}
	if tag.RowsAffected() == 0 {
		return quill.ErrContentTypeNotFound
	}
	return nil
}

func (r *Repository) DeleteContentType(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM content_types WHERE id = $1`, id)
	if err != nil {
		return false, handlePostgresError("delete content type", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) CountContentByType(ctx context.Context, contentTypeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM contents WHERE content_type_id = $1`, contentTypeID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *quill.Content) error {
	fields, err := json.Marshal(content.Fields)
	if err != nil {
		return fmt.Errorf("marshal content fields: %w", err)
	}

	query := `
		INSERT INTO contents (
			id, content_type_id, title, slug, status, fields,
			created_by, updated_by, published_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.Exec(ctx, query,
		content.ID, content.ContentTypeID, content.Title, content.Slug,
		content.Status, fields, content.CreatedBy, content.UpdatedBy,
		content.PublishedAt, content.CreatedAt, content.UpdatedAt)
	if err != nil {
		return handlePostgresError("create content", err)
	}
	return nil
}

const contentColumns = `id, content_type_id, title, slug, status, fields,
	created_by, updated_by, published_at, created_at, updated_at`

func scanContent(row pgx.Row) (*quill.Content, error) {
	var content quill.Content
	var fields []byte
	err := row.Scan(&content.ID, &content.ContentTypeID, &content.Title, &content.Slug,
		&content.Status, &fields, &content.CreatedBy, &content.UpdatedBy,
		&content.PublishedAt, &content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quill.ErrContentNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(fields, &content.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal content fields: %w", err)
	}
	return &content, nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*quill.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`
	return scanContent(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetContentBySlug(ctx context.Context, contentTypeID uuid.UUID, slug string) (*quill.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE content_type_id = $1 AND slug = $2`
	return scanContent(r.db.QueryRow(ctx, query, contentTypeID, slug))
}

func (r *Repository) ListContent(ctx context.Context, filter quill.ContentFilter) ([]*quill.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE 1=1`
	var args []interface{}

	if filter.ContentTypeID != nil {
		args = append(args, *filter.ContentTypeID)
		query += fmt.Sprintf(" AND content_type_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []*quill.Content
	for rows.Next() {
		var content quill.Content
		var fields []byte
		if err := rows.Scan(&content.ID, &content.ContentTypeID, &content.Title, &content.Slug,
			&content.Status, &fields, &content.CreatedBy, &content.UpdatedBy,
			&content.PublishedAt, &content.CreatedAt, &content.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fields, &content.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal content fields: %w", err)
		}
		contents = append(contents, &content)
	}
	return contents, rows.Err()
}

func (r *Repository) UpdateContent(ctx context.Context, content *quill.Content) error {
	fields, err := json.Marshal(content.Fields)
	if err != nil {
		return fmt.Errorf("marshal content fields: %w", err)
	}

	query := `
		UPDATE contents SET
			title = $2, slug = $3, status = $4, fields = $5,
			updated_by = $6, published_at = $7, updated_at = $8
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		content.ID, content.Title, content.Slug, content.Status, fields,
		content.UpdatedBy, content.PublishedAt, content.UpdatedAt)
	if err != nil {
		return handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		return quill.ErrContentNotFound
	}
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return false, handlePostgresError("delete content", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Media operations

func (r *Repository) CreateMedia(ctx context.Context, media *quill.Media) error {
	query := `
		INSERT INTO media (id, filename, mime_type, size, url, object_key, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		media.ID, media.Filename, media.MimeType, media.Size, media.URL,
		media.ObjectKey, media.CreatedBy, media.CreatedAt, media.UpdatedAt)
	if err != nil {
		return handlePostgresError("create media", err)
	}
	return nil
}

const mediaColumns = `id, filename, mime_type, size, url, object_key, created_by, created_at, updated_at`

func (r *Repository) GetMedia(ctx context.Context, id uuid.UUID) (*quill.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`

	var media quill.Media
	err := r.db.QueryRow(ctx, query, id).Scan(
		&media.ID, &media.Filename, &media.MimeType, &media.Size, &media.URL,
		&media.ObjectKey, &media.CreatedBy, &media.CreatedAt, &media.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quill.ErrMediaNotFound
		}
		return nil, err
	}
	return &media, nil
}

func (r *Repository) ListMedia(ctx context.Context) ([]*quill.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*quill.Media
	for rows.Next() {
		var media quill.Media
		if err := rows.Scan(&media.ID, &media.Filename, &media.MimeType, &media.Size,
			&media.URL, &media.ObjectKey, &media.CreatedBy, &media.CreatedAt,
			&media.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &media)
	}
	return items, rows.Err()
}

func (r *Repository) DeleteMedia(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return false, handlePostgresError("delete media", err)
	}
	return tag.RowsAffected() > 0, nil
}
