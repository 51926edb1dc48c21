package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/face-sorter/internal/cache"
)

// FaceRepository provides PostgreSQL-backed face cache storage.
type FaceRepository struct {
	pool *Pool
}

// NewFaceRepository creates a new PostgreSQL face cache repository.
func NewFaceRepository(pool *Pool) *FaceRepository {
	return &FaceRepository{pool: pool}
}

// GetFaces retrieves the cached faces for an image version. A stale entry
// (size or mtime mismatch) is treated as a miss.
func (r *FaceRepository) GetFaces(ctx context.Context, key cache.Key) ([]cache.StoredFace, bool, error) {
	var size int64
	var modTime sql.NullTime
	err := r.pool.db.QueryRowContext(ctx,
		"SELECT size, mod_time FROM face_cache_entries WHERE path = $1", key.Path,
	).Scan(&size, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache entry: %w", err)
	}

	if size != key.Size || !modTime.Valid || !modTime.Time.Equal(key.ModTime) {
		return nil, false, nil
	}

	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT path, face_index, bbox, det_score, embedding, dim, created_at
		FROM face_cache
		WHERE path = $1
		ORDER BY face_index
	`, key.Path)
	if err != nil {
		return nil, false, fmt.Errorf("query cached faces: %w", err)
	}
	defer rows.Close()

	var faces []cache.StoredFace
	for rows.Next() {
		var face cache.StoredFace
		var bbox pq.Float64Array
		var vec pgvector.Vector

		if err := rows.Scan(
			&face.Path,
			&face.FaceIndex,
			&bbox,
			&face.DetScore,
			&vec,
			&face.Dim,
			&face.CreatedAt,
		); err != nil {
			return nil, false, fmt.Errorf("scan cached face: %w", err)
		}

		face.BBox = []float64(bbox)
		face.Embedding = vec.Slice()
		faces = append(faces, face)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate cached faces: %w", err)
	}

	return faces, true, nil
}

// PutFaces stores the faces for an image version, replacing any previous entry
// for the same path.
func (r *FaceRepository) PutFaces(ctx context.Context, key cache.Key, faces []cache.StoredFace) error {
	tx, err := r.pool.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM face_cache_entries WHERE path = $1", key.Path); err != nil {
		return fmt.Errorf("delete stale entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO face_cache_entries (path, size, mod_time, face_count)
		VALUES ($1, $2, $3, $4)
	`, key.Path, key.Size, key.ModTime, len(faces)); err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}

	for _, face := range faces {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO face_cache (path, face_index, bbox, det_score, embedding, dim)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			key.Path,
			face.FaceIndex,
			pq.Float64Array(face.BBox),
			face.DetScore,
			pgvector.NewVector(face.Embedding),
			len(face.Embedding),
		); err != nil {
			return fmt.Errorf("insert cached face %d: %w", face.FaceIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Count returns the number of distinct images with a cache entry.
func (r *FaceRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM face_cache_entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}
