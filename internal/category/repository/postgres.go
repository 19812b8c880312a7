package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fekuna/omnipos-backoffice/internal/apperror"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
	"github.com/fekuna/omnipos-backoffice/internal/model"
)

const table = "categories"

var columns = []string{
	"id", "merchant_id", "parent_id", "name", "description", "image_url",
	"sort_order", "is_active", "created_at", "updated_at",
}

// postgres error codes
const (
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

type PGRepository struct {
	DB  *sqlx.DB
	psq sq.StatementBuilderType
	now func() time.Time
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{
		DB:  db,
		psq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now: time.Now,
	}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, merchant_id, parent_id, name, description, image_url, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :merchant_id, :parent_id, :name, :description, :image_url, :sort_order, :is_active, :created_at, :updated_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return translate("create category", err)
	}
	return nil
}

// FindByID returns nil, nil when the category does not exist.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	query, args, err := r.psq.Select(columns...).From(table).Where(sq.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	var category model.Category
	if err := r.DB.GetContext(ctx, &category, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("find category", err)
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	where := sq.And{}
	if f.MerchantID != "" {
		where = append(where, sq.Eq{"merchant_id": f.MerchantID})
	}
	if f.ParentID != nil {
		if *f.ParentID == "" {
			where = append(where, sq.Eq{"parent_id": nil})
		} else {
			where = append(where, sq.Eq{"parent_id": *f.ParentID})
		}
	}
	if f.IsActive != nil {
		where = append(where, sq.Eq{"is_active": *f.IsActive})
	}

	countQuery, countArgs, err := r.psq.Select("count(*)").From(table).Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var count int
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, apperror.NewDatabaseError("count categories", err)
	}

	list := r.psq.Select(columns...).From(table).Where(where).OrderBy("sort_order ASC", "name ASC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		list = list.Limit(uint64(f.PageSize)).Offset(uint64((page - 1) * f.PageSize))
	}
	query, args, err := list.ToSql()
	if err != nil {
		return nil, 0, err
	}

	categories := []model.Category{}
	if err := r.DB.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, 0, apperror.NewDatabaseError("list categories", err)
	}
	return categories, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET parent_id = :parent_id,
            name = :name,
            description = :description,
            image_url = :image_url,
            sort_order = :sort_order,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND merchant_id = :merchant_id
    `
	res, err := r.DB.NamedExecContext(ctx, query, c)
	if err != nil {
		return translate("update category", err)
	}
	return expectOne(res, c.ID)
}

// Delete removes one category. The parent_id foreign key is ON DELETE SET
// NULL, so its children become roots.
func (r *PGRepository) Delete(ctx context.Context, merchantID, id string) error {
	query, args, err := r.psq.Delete(table).Where(sq.Eq{"id": id, "merchant_id": merchantID}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return translate("delete category", err)
	}
	return expectOne(res, id)
}

func (r *PGRepository) SetActive(ctx context.Context, merchantID, id string, isActive bool) error {
	query, args, err := r.psq.Update(table).
		Set("is_active", isActive).
		Set("updated_at", r.now()).
		Where(sq.Eq{"id": id, "merchant_id": merchantID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return translate("set category active", err)
	}
	return expectOne(res, id)
}

// ApplyReorder runs the batch in one transaction. If any category in the
// batch is missing, or a new parent does not exist, nothing is written.
func (r *PGRepository) ApplyReorder(ctx context.Context, merchantID string, instructions []tree.Instruction) (err error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.NewDatabaseError("begin reorder", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := r.now()
	for _, in := range instructions {
		update := r.psq.Update(table).
			Set("sort_order", in.NewOrder).
			Set("updated_at", now)
		if in.Reparent {
			update = update.Set("parent_id", in.NewParentID)
		}
		query, args, buildErr := update.Where(sq.Eq{"id": in.CategoryID, "merchant_id": merchantID}).ToSql()
		if buildErr != nil {
			return buildErr
		}

		res, execErr := tx.ExecContext(ctx, query, args...)
		if execErr != nil {
			return translate("reorder category", execErr)
		}
		if err = expectOne(res, in.CategoryID); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewDatabaseError("commit reorder", err)
	}
	return nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDatabaseError("rows affected", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("category %s", id)).
			WithDetails(map[string]interface{}{"categoryId": id})
	}
	return nil
}

func translate(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case foreignKeyViolation:
			return apperror.NewConflictError("referenced parent category does not exist").WithCause(err)
		case checkViolation:
			return apperror.NewValidationError(pqErr.Message).WithCause(err)
		}
	}
	return apperror.NewDatabaseError(op, err)
}
