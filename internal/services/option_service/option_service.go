package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"content_hub/internal/domain/models"
	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/query"
	"content_hub/internal/repository"
	"content_hub/internal/services/crud"
)

const entity = "option"

type OptionService struct {
	log     *slog.Logger
	options repository.OptionRepository
}

func NewOptionService(log *slog.Logger, options repository.OptionRepository) *OptionService {
	return &OptionService{log: log, options: options}
}

func (s *OptionService) List(ctx context.Context) (options []models.Option, err error) {
	const op = "option_service.List"
	log := s.log.With(slog.String("op", op))
	defer func() { crud.Observe(entity, "list", err) }()

	options, err = s.options.FindAll(ctx)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to list options")
	}

	return options, nil
}

func (s *OptionService) Get(ctx context.Context, name string) (option *models.Option, err error) {
	const op = "option_service.Get"
	log := s.log.With(slog.String("op", op), slog.String("name", name))
	defer func() { crud.Observe(entity, "get", err) }()

	option, err = s.options.FindByName(ctx, name)
	if err != nil {
		return nil, crud.Fail(log, entity, err, "failed to get option")
	}

	return option, nil
}

// Set stores value under name, creating the option when it does not exist.
func (s *OptionService) Set(ctx context.Context, name string, value json.RawMessage) (option *models.Option, err error) {
	const op = "option_service.Set"
	log := s.log.With(slog.String("op", op), slog.String("name", name))
	defer func() { crud.Observe(entity, "set", err) }()

	option = &models.Option{Name: name, Value: value}
	if err := s.options.Upsert(ctx, option); err != nil {
		return nil, crud.Fail(log, entity, err, "failed to set option")
	}

	log.Info("option stored")

	return option, nil
}

func (s *OptionService) Delete(ctx context.Context, names query.OneOrMany[string]) (res crud.DeleteResult, err error) {
	const op = "option_service.Delete"
	log := s.log.With(slog.String("op", op), slog.Int("requested", names.Len()))
	defer func() { crud.Observe(entity, "delete", err) }()

	res, err = crud.Delete(ctx, entity, names, s.options.FindByNames, optionName, s.options.Destroy)
	if err != nil {
		log.Warn("option delete failed", sl.Err(err))
		return crud.DeleteResult{}, err
	}

	log.Info("options deleted", slog.Int64("deleted", res.DeletedCount))

	return res, nil
}

func optionName(o models.Option) string { return o.Name }
