package handler

import (
	"context"
	"sync"

	"github.com/fekuna/omnipos-backoffice/internal/apperror"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
	"github.com/fekuna/omnipos-backoffice/internal/model"
)

// fakeUseCase records the inputs it receives and answers from canned state.
type fakeUseCase struct {
	mu sync.Mutex

	cats     map[string]*model.Category
	batch    []tree.Instruction
	expanded []string
	err      error

	lastFilters *dto.CategoryFilters
	lastTree    *dto.TreeInput
	lastCreate  *dto.CreateCategoryInput
	lastUpdate  *dto.UpdateCategoryInput
	lastToggle  *dto.ToggleActiveInput
	lastReorder *dto.ReorderInput
	lastMove    *dto.MoveInput
	lastExpand  *dto.ExpandedInput
	deleted     []string
}

func newFakeUseCase(cats ...*model.Category) *fakeUseCase {
	f := &fakeUseCase{cats: make(map[string]*model.Category)}
	for _, c := range cats {
		f.cats[c.ID] = c
	}
	return f
}

func (f *fakeUseCase) CreateCategory(_ context.Context, in *dto.CreateCategoryInput) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCreate = in
	if f.err != nil {
		return nil, f.err
	}
	c := &model.Category{BaseModel: model.BaseModel{ID: "new"}, MerchantID: in.MerchantID, ParentID: in.ParentID, Name: in.Name, IsActive: true}
	f.cats[c.ID] = c
	return c, nil
}

func (f *fakeUseCase) GetCategory(_ context.Context, merchantID, id string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cats[id]
	if !ok || c.MerchantID != merchantID {
		return nil, apperror.NewNotFoundError("category")
	}
	return c, nil
}

func (f *fakeUseCase) ListCategories(_ context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilters = filters
	if f.err != nil {
		return nil, 0, f.err
	}
	out := []model.Category{}
	for _, c := range f.cats {
		if c.MerchantID == filters.MerchantID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (f *fakeUseCase) UpdateCategory(_ context.Context, in *dto.UpdateCategoryInput) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUpdate = in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Category{BaseModel: model.BaseModel{ID: in.ID}, MerchantID: in.MerchantID, ParentID: in.ParentID, Name: in.Name, IsActive: in.IsActive}, nil
}

func (f *fakeUseCase) DeleteCategory(_ context.Context, merchantID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, merchantID+"/"+id)
	return nil
}

func (f *fakeUseCase) ToggleActive(_ context.Context, in *dto.ToggleActiveInput) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToggle = in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Category{BaseModel: model.BaseModel{ID: in.ID}, MerchantID: in.MerchantID, IsActive: in.IsActive}, nil
}

func (f *fakeUseCase) GetTree(_ context.Context, in *dto.TreeInput) (*dto.TreeView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTree = in
	if f.err != nil {
		return nil, f.err
	}
	node := &tree.Node{Record: tree.Record{ID: "a", Name: "Apparel", IsActive: true}, Children: []*tree.Node{}}
	return &dto.TreeView{
		Tree:     []*tree.Node{node},
		Expanded: []string{},
		Visible:  dto.NewVisibleNodes([]*tree.Node{node}, tree.NewExpandedSet()),
		Query:    in.Query,
	}, nil
}

func (f *fakeUseCase) ApplyReorder(_ context.Context, in *dto.ReorderInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReorder = in
	return f.err
}

func (f *fakeUseCase) MoveCategory(_ context.Context, in *dto.MoveInput) ([]tree.Instruction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMove = in
	if f.err != nil {
		return nil, f.err
	}
	return f.batch, nil
}

func (f *fakeUseCase) expand(in *dto.ExpandedInput) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastExpand = in
	if f.err != nil {
		return nil, f.err
	}
	return f.expanded, nil
}

func (f *fakeUseCase) GetExpanded(_ context.Context, in *dto.ExpandedInput) ([]string, error) {
	return f.expand(in)
}

func (f *fakeUseCase) ToggleExpanded(_ context.Context, in *dto.ExpandedInput) ([]string, error) {
	return f.expand(in)
}

func (f *fakeUseCase) ExpandAll(_ context.Context, in *dto.ExpandedInput) ([]string, error) {
	return f.expand(in)
}

func (f *fakeUseCase) CollapseAll(_ context.Context, in *dto.ExpandedInput) ([]string, error) {
	return f.expand(in)
}
