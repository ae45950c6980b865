package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
	"focusos/internal/types"
)

// PresetTemplates are the built-in, immutable templates
var PresetTemplates = []types.PomodoroTemplate{
	{ID: "classic", Name: "Classic", WorkMinutes: 25, BreakMinutes: 5},
	{ID: "extended", Name: "Extended", WorkMinutes: 45, BreakMinutes: 15},
	{ID: "long", Name: "Long", WorkMinutes: 50, BreakMinutes: 10},
	{ID: "short", Name: "Short", WorkMinutes: 15, BreakMinutes: 5},
}

const (
	customTemplatePrefix = "custom-"
	maxTemplateMinutes   = 240
)

// TemplateService manages preset and custom Pomodoro templates
type TemplateService struct {
	store  TemplateStore
	logger logging.Logger
}

// NewTemplateService creates a template service
func NewTemplateService(store TemplateStore, logger logging.Logger) *TemplateService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &TemplateService{store: store, logger: logger}
}

// List returns presets followed by custom templates in creation order
func (s *TemplateService) List(ctx context.Context) ([]types.PomodoroTemplate, error) {
	custom, err := s.store.CustomTemplates(ctx)
	if err != nil {
		return nil, err
	}
	templates := make([]types.PomodoroTemplate, 0, len(PresetTemplates)+len(custom))
	templates = append(templates, PresetTemplates...)
	return append(templates, custom...), nil
}

// Get returns the template with id or a NotFound error
func (s *TemplateService) Get(ctx context.Context, id string) (types.PomodoroTemplate, error) {
	for _, t := range PresetTemplates {
		if t.ID == id {
			return t, nil
		}
	}

	custom, err := s.store.CustomTemplates(ctx)
	if err != nil {
		return types.PomodoroTemplate{}, err
	}
	for _, t := range custom {
		if t.ID == id {
			return t, nil
		}
	}
	return types.PomodoroTemplate{}, repoerrors.HandleNotFound("GetTemplate", "template", id)
}

// Create validates and stores a custom template
func (s *TemplateService) Create(ctx context.Context, name string, workMinutes, breakMinutes int) (types.PomodoroTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.PomodoroTemplate{}, repoerrors.HandleValidationError("CreateTemplate", "name", name, "name is required")
	}
	if workMinutes < 1 || workMinutes > maxTemplateMinutes {
		return types.PomodoroTemplate{}, repoerrors.HandleValidationError("CreateTemplate", "workMinutes",
			strconv.Itoa(workMinutes), "must be between 1 and 240")
	}
	if breakMinutes < 1 || breakMinutes > maxTemplateMinutes {
		return types.PomodoroTemplate{}, repoerrors.HandleValidationError("CreateTemplate", "breakMinutes",
			strconv.Itoa(breakMinutes), "must be between 1 and 240")
	}

	template := types.PomodoroTemplate{
		ID:           customTemplatePrefix + uuid.NewString(),
		Name:         name,
		WorkMinutes:  workMinutes,
		BreakMinutes: breakMinutes,
		IsCustom:     true,
	}

	err := s.store.UpdateCustomTemplates(ctx, func(list []types.PomodoroTemplate) ([]types.PomodoroTemplate, error) {
		return append(list, template), nil
	})
	if err != nil {
		return types.PomodoroTemplate{}, err
	}

	s.logger.Info("Created custom template", "id", template.ID, "name", template.Name)
	return template, nil
}

// Delete removes a custom template. Unknown ids are a no-op; presets cannot be deleted.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	for _, t := range PresetTemplates {
		if t.ID == id {
			return repoerrors.HandleValidationError("DeleteTemplate", "id", id, "preset templates cannot be deleted")
		}
	}

	return s.store.UpdateCustomTemplates(ctx, func(list []types.PomodoroTemplate) ([]types.PomodoroTemplate, error) {
		kept := list[:0]
		for _, t := range list {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		return kept, nil
	})
}
