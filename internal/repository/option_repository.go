package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"content_hub/internal/domain/models"
	"content_hub/internal/query"
	"content_hub/internal/storage/postgresql"
)

type OptionRepo struct {
	base
}

func NewOptionRepository(db connProvider) *OptionRepo {
	return &OptionRepo{base: newBase(db, nil)}
}

func (r *OptionRepo) FindAll(ctx context.Context) ([]models.Option, error) {
	const op = "repository.option_repository.FindAll"

	options, err := optionsTable.findAll(ctx, r.db.Conn(ctx), r.sb, nil,
		[]query.OrderBy{{Column: "name", Direction: query.Asc}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return options, nil
}

func (r *OptionRepo) FindByName(ctx context.Context, name string) (*models.Option, error) {
	const op = "repository.option_repository.FindByName"

	option, err := optionsTable.findOne(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"name": name})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return option, nil
}

func (r *OptionRepo) FindByNames(ctx context.Context, names []string) ([]models.Option, error) {
	const op = "repository.option_repository.FindByNames"

	if len(names) == 0 {
		return []models.Option{}, nil
	}

	options, err := optionsTable.findAll(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"name": names}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return options, nil
}

// Upsert stores option under its name, replacing the previous value.
func (r *OptionRepo) Upsert(ctx context.Context, option *models.Option) error {
	const op = "repository.option_repository.Upsert"

	if err := validateModel(option); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sql, args, err := r.sb.Insert(optionsTable.name).
		Columns("name", "value").
		Values(option.Name, option.Value).
		Suffix(`ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
			RETURNING name, value, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(optionsTable.fields(option)...); err != nil {
		return fmt.Errorf("%s: %w", op, postgresql.MapError(err))
	}

	return nil
}

func (r *OptionRepo) Destroy(ctx context.Context, names []string) (int64, error) {
	const op = "repository.option_repository.Destroy"

	n, err := optionsTable.destroy(ctx, r.db.Conn(ctx), r.sb, sq.Eq{"name": names})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
