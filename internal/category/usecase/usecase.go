package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-backoffice/internal/apperror"
	"github.com/fekuna/omnipos-backoffice/internal/cache"
	"github.com/fekuna/omnipos-backoffice/internal/category"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/category/expanded"
	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
	"github.com/fekuna/omnipos-backoffice/internal/logger"
	"github.com/fekuna/omnipos-backoffice/internal/metrics"
	"github.com/fekuna/omnipos-backoffice/internal/model"
	"github.com/fekuna/omnipos-backoffice/internal/validation"
)

// MaxBatchSize bounds one reorder request.
const MaxBatchSize = 500

const defaultCacheTTL = 5 * time.Minute

type categoryUseCase struct {
	repo     category.Repository
	cache    *cache.RedisClient
	kv       expanded.KV
	metrics  *metrics.Collector
	logger   logger.ZapLogger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewCategoryUseCase wires the category use case. cache and m may be nil;
// listing then always reads through to the repository.
func NewCategoryUseCase(
	repo category.Repository,
	cache *cache.RedisClient,
	kv expanded.KV,
	m *metrics.Collector,
	log logger.ZapLogger,
	cacheTTL time.Duration,
) category.UseCase {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &categoryUseCase{
		repo:     repo,
		cache:    cache,
		kv:       kv,
		metrics:  m,
		logger:   log,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.ParentID != nil && *input.ParentID != "" {
		if _, err := uc.findOwned(ctx, input.MerchantID, *input.ParentID, "parent category"); err != nil {
			return nil, err
		}
	} else {
		input.ParentID = nil
	}

	order := 0
	if input.SortOrder != nil {
		order = *input.SortOrder
	} else {
		siblings, _, err := uc.repo.FindAll(ctx, &dto.CategoryFilters{MerchantID: input.MerchantID, ParentID: parentFilter(input.ParentID)})
		if err != nil {
			return nil, err
		}
		for _, s := range siblings {
			if s.SortOrder >= order {
				order = s.SortOrder + 1
			}
		}
	}

	now := uc.now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MerchantID:  input.MerchantID,
		ParentID:    input.ParentID,
		Name:        strings.TrimSpace(input.Name),
		Description: optional(input.Description),
		ImageURL:    optional(input.ImageURL),
		SortOrder:   order,
		IsActive:    true,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, input.MerchantID)

	uc.logger.Info("category created",
		zap.String("merchant_id", cat.MerchantID),
		zap.String("category_id", cat.ID),
		zap.Int("sort_order", cat.SortOrder),
	)
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, merchantID, id string) (*model.Category, error) {
	return uc.findOwned(ctx, merchantID, id, "category")
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	cacheKey, err := generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var result cachedList
			if err := json.Unmarshal(val, &result); err == nil {
				uc.metrics.CacheHit()
				return result.Categories, result.Count, nil
			}
		}
		uc.metrics.CacheMiss()
	}

	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		if data, err := json.Marshal(cachedList{Categories: categories, Count: count}); err == nil {
			if err := uc.cache.Client.Set(ctx, cacheKey, data, uc.cacheTTL).Err(); err != nil {
				uc.logger.Warn("cache category list", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}
	return categories, count, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	cat, err := uc.findOwned(ctx, input.MerchantID, input.ID, "category")
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil && *input.ParentID == "" {
		input.ParentID = nil
	}
	if input.ParentID != nil && !sameID(cat.ParentID, input.ParentID) {
		if *input.ParentID == cat.ID {
			return nil, apperror.NewValidationError("a category cannot be its own parent")
		}
		if _, err := uc.findOwned(ctx, input.MerchantID, *input.ParentID, "parent category"); err != nil {
			return nil, err
		}
		records, err := uc.records(ctx, input.MerchantID, false)
		if err != nil {
			return nil, err
		}
		if tree.Descends(records, *input.ParentID, cat.ID) {
			return nil, apperror.NewValidationError("a category cannot move under its own descendant")
		}
	}

	cat.Name = strings.TrimSpace(input.Name)
	cat.Description = optional(input.Description)
	cat.ImageURL = optional(input.ImageURL)
	cat.SortOrder = input.SortOrder
	cat.IsActive = input.IsActive
	cat.ParentID = input.ParentID
	cat.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, input.MerchantID)
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, merchantID, id string) error {
	if err := uc.repo.Delete(ctx, merchantID, id); err != nil {
		return err
	}
	uc.invalidate(ctx, merchantID)
	uc.logger.Info("category deleted", zap.String("merchant_id", merchantID), zap.String("category_id", id))
	return nil
}

func (uc *categoryUseCase) ToggleActive(ctx context.Context, input *dto.ToggleActiveInput) (*model.Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := uc.repo.SetActive(ctx, input.MerchantID, input.ID, input.IsActive); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, input.MerchantID)
	return uc.findOwned(ctx, input.MerchantID, input.ID, "category")
}

// GetTree returns the forest as the user sees it. A non-empty query also
// expands every ancestor of a match and stores the grown set.
func (uc *categoryUseCase) GetTree(ctx context.Context, input *dto.TreeInput) (*dto.TreeView, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	records, err := uc.records(ctx, input.MerchantID, input.ActiveOnly)
	if err != nil {
		return nil, err
	}

	state := expanded.NewState(uc.kv, input.MerchantID, input.UserID)
	set := uc.loadExpanded(ctx, state)

	query := strings.TrimSpace(input.Query)
	if query != "" {
		next := tree.AutoExpandForQuery(records, query, set)
		if len(next) > len(set) {
			if merged, err := state.Merge(ctx, next); err != nil {
				uc.logger.Warn("persist auto-expanded categories", zap.String("user_id", input.UserID), zap.Error(err))
				set = next
			} else {
				set = merged
			}
		}
	}

	roots := tree.BuildFilteredTree(records, query, nil, 0)
	return &dto.TreeView{
		Tree:     roots,
		Expanded: set.IDs(),
		Visible:  dto.NewVisibleNodes(tree.Flatten(roots, set), set),
		Query:    query,
	}, nil
}

// ApplyReorder persists a client-computed batch after checking it against
// the merchant's current rows.
func (uc *categoryUseCase) ApplyReorder(ctx context.Context, input *dto.ReorderInput) error {
	if err := validation.Struct(input); err != nil {
		uc.metrics.ObserveReorder(metrics.OutcomeRejected, len(input.Instructions))
		return err
	}
	records, err := uc.records(ctx, input.MerchantID, false)
	if err != nil {
		return err
	}
	if err := validateBatch(records, input.Instructions); err != nil {
		uc.metrics.ObserveReorder(metrics.OutcomeRejected, len(input.Instructions))
		return err
	}
	return uc.persist(ctx, input.MerchantID, input.Instructions)
}

// MoveCategory runs a drag end on the server: the visible list is rebuilt from
// the stored rows and the user's expanded set, and the resulting batch is
// applied. An empty batch means the drop changed nothing.
func (uc *categoryUseCase) MoveCategory(ctx context.Context, input *dto.MoveInput) ([]tree.Instruction, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	records, err := uc.records(ctx, input.MerchantID, false)
	if err != nil {
		return nil, err
	}
	set := uc.loadExpanded(ctx, expanded.NewState(uc.kv, input.MerchantID, input.UserID))

	roots := tree.BuildFilteredTree(records, input.Query, nil, 0)
	batch := tree.ComputeReorder(records, tree.Flatten(roots, set), input.ActiveID, input.OverID)
	if len(batch) == 0 {
		uc.metrics.ObserveReorder(metrics.OutcomeNoop, 0)
		return []tree.Instruction{}, nil
	}

	if err := uc.persist(ctx, input.MerchantID, batch); err != nil {
		return nil, err
	}
	uc.logger.Info("category moved",
		zap.String("merchant_id", input.MerchantID),
		zap.String("active_id", input.ActiveID),
		zap.String("over_id", input.OverID),
		zap.Int("updates", len(batch)),
	)
	return batch, nil
}

func (uc *categoryUseCase) GetExpanded(ctx context.Context, input *dto.ExpandedInput) ([]string, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	return uc.loadExpanded(ctx, expanded.NewState(uc.kv, input.MerchantID, input.UserID)).IDs(), nil
}

func (uc *categoryUseCase) ToggleExpanded(ctx context.Context, input *dto.ExpandedInput) ([]string, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.CategoryID == "" {
		return nil, apperror.NewValidationError("categoryId is required")
	}
	set, err := expanded.NewState(uc.kv, input.MerchantID, input.UserID).Toggle(ctx, input.CategoryID)
	if err != nil {
		return nil, apperror.NewInternalError("could not save expanded categories").WithCause(err)
	}
	return set.IDs(), nil
}

// ExpandAll expands every category that has at least one child.
func (uc *categoryUseCase) ExpandAll(ctx context.Context, input *dto.ExpandedInput) ([]string, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	records, err := uc.records(ctx, input.MerchantID, false)
	if err != nil {
		return nil, err
	}
	set, err := expanded.NewState(uc.kv, input.MerchantID, input.UserID).ExpandAll(ctx, tree.ParentIDs(records))
	if err != nil {
		return nil, apperror.NewInternalError("could not save expanded categories").WithCause(err)
	}
	return set.IDs(), nil
}

func (uc *categoryUseCase) CollapseAll(ctx context.Context, input *dto.ExpandedInput) ([]string, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	set, err := expanded.NewState(uc.kv, input.MerchantID, input.UserID).CollapseAll(ctx)
	if err != nil {
		return nil, apperror.NewInternalError("could not clear expanded categories").WithCause(err)
	}
	return set.IDs(), nil
}

func (uc *categoryUseCase) persist(ctx context.Context, merchantID string, batch []tree.Instruction) error {
	if err := uc.repo.ApplyReorder(ctx, merchantID, batch); err != nil {
		uc.metrics.ObserveReorder(metrics.OutcomeFailed, len(batch))
		uc.logger.Error("apply reorder",
			zap.String("merchant_id", merchantID),
			zap.Int("updates", len(batch)),
			zap.Error(err),
		)
		return err
	}
	uc.metrics.ObserveReorder(metrics.OutcomeApplied, len(batch))
	uc.invalidate(ctx, merchantID)
	return nil
}

// records loads every category of the merchant as engine records.
func (uc *categoryUseCase) records(ctx context.Context, merchantID string, activeOnly bool) ([]tree.Record, error) {
	filters := &dto.CategoryFilters{MerchantID: merchantID}
	if activeOnly {
		active := true
		filters.IsActive = &active
	}
	categories, _, err := uc.ListCategories(ctx, filters)
	if err != nil {
		return nil, err
	}
	return model.Records(categories), nil
}

func (uc *categoryUseCase) loadExpanded(ctx context.Context, state *expanded.State) tree.ExpandedSet {
	set, err := state.Load(ctx)
	if err != nil {
		uc.logger.Warn("load expanded categories, starting collapsed", zap.Error(err))
	}
	return set
}

func (uc *categoryUseCase) findOwned(ctx context.Context, merchantID, id, resource string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil || cat.MerchantID != merchantID {
		return nil, apperror.NewNotFoundError(resource).WithDetails(map[string]interface{}{"categoryId": id})
	}
	return cat, nil
}

// invalidate drops the merchant's cached lists before the mutation returns,
// so a refetch right after it reads the new rows.
func (uc *categoryUseCase) invalidate(ctx context.Context, merchantID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, fmt.Sprintf("categories:list:%s:*", merchantID)); err != nil {
		uc.logger.Warn("invalidate category cache", zap.String("merchant_id", merchantID), zap.Error(err))
	}
}

type cachedList struct {
	Categories []model.Category
	Count      int
}

func generateCacheKey(filters *dto.CategoryFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("categories:list:%s:%x", filters.MerchantID, md5.Sum(data)), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parentFilter(parentID *string) *string {
	if parentID == nil {
		root := ""
		return &root
	}
	return parentID
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
