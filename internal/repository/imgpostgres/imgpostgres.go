package imgpostgres

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/UnendingLoop/PixelVault/internal/model"
	"github.com/wb-go/wbf/dbpg"
)

// PostgresRepo: чтение через dbpg, запись всегда в Master
type PostgresRepo struct {
	DB *dbpg.DB
}

const imageColumns = `image_id, name, src, uploaded, pixelation_level, in_bin, restored_from_bin`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*model.Image, error) {
	var image model.Image
	err := row.Scan(&image.ID,
		&image.Name,
		&image.Src,
		&image.Uploaded,
		&image.PixelationLevel,
		&image.InBin,
		&image.RestoredFromBin)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, model.ErrImageNotFound // 404
		default:
			return nil, err // 500
		}
	}
	return &image, nil
}

func (p PostgresRepo) Create(ctx context.Context, n *model.Image) error {
	query := `INSERT INTO images (` + imageColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := p.DB.Master.ExecContext(ctx, query, n.ID, n.Name, n.Src, n.Uploaded, n.PixelationLevel, n.InBin, n.RestoredFromBin)
	return err
}

func (p PostgresRepo) Get(ctx context.Context, id string) (*model.Image, error) {
	query := `SELECT ` + imageColumns + `
	FROM images
	WHERE image_id = $1`

	return scanImage(p.DB.QueryRowContext(ctx, query, id))
}

func (p PostgresRepo) GetList(ctx context.Context) ([]model.Image, error) {
	query := `SELECT ` + imageColumns + `
	FROM images
	ORDER BY uploaded ASC, image_id ASC`

	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Error while closing *sql.Rows after scanning: %v", err)
		}
	}()

	images := make([]model.Image, 0)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, *image)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return images, nil
}

// SetBin меняет только in_bin
func (p PostgresRepo) SetBin(ctx context.Context, id string, inBin bool) (*model.Image, error) {
	query := `UPDATE images SET in_bin = $1
	WHERE image_id = $2
	RETURNING ` + imageColumns

	return scanImage(p.DB.Master.QueryRowContext(ctx, query, inBin, id))
}

// SetRestoredFromBin - оба флага одним стейтментом
func (p PostgresRepo) SetRestoredFromBin(ctx context.Context, id string) (*model.Image, error) {
	query := `UPDATE images SET in_bin = FALSE, restored_from_bin = TRUE
	WHERE image_id = $1
	RETURNING ` + imageColumns

	return scanImage(p.DB.Master.QueryRowContext(ctx, query, id))
}

// MarkRestored не трогает in_bin
func (p PostgresRepo) MarkRestored(ctx context.Context, id string) (*model.Image, error) {
	query := `UPDATE images SET restored_from_bin = TRUE
	WHERE image_id = $1
	RETURNING ` + imageColumns

	return scanImage(p.DB.Master.QueryRowContext(ctx, query, id))
}
