package category

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
	"github.com/fekuna/omnipos-backoffice/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, merchantID, id string) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, merchantID, id string) error
	ToggleActive(ctx context.Context, input *dto.ToggleActiveInput) (*model.Category, error)

	GetTree(ctx context.Context, input *dto.TreeInput) (*dto.TreeView, error)
	ApplyReorder(ctx context.Context, input *dto.ReorderInput) error
	MoveCategory(ctx context.Context, input *dto.MoveInput) ([]tree.Instruction, error)

	GetExpanded(ctx context.Context, input *dto.ExpandedInput) ([]string, error)
	ToggleExpanded(ctx context.Context, input *dto.ExpandedInput) ([]string, error)
	ExpandAll(ctx context.Context, input *dto.ExpandedInput) ([]string, error)
	CollapseAll(ctx context.Context, input *dto.ExpandedInput) ([]string, error)
}
