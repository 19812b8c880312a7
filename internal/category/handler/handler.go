package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	categoryv1 "github.com/fekuna/omnipos-backoffice/api/category/v1"
	"github.com/fekuna/omnipos-backoffice/internal/apperror"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/category"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
	"github.com/fekuna/omnipos-backoffice/internal/logger"
	"github.com/fekuna/omnipos-backoffice/internal/model"
)

var _ categoryv1.CategoryServiceServer = (*CategoryHandler)(nil)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) CreateCategory(ctx context.Context, req *categoryv1.CreateCategoryRequest) (*categoryv1.CategoryResponse, error) {
	u, err := manager(ctx)
	if err != nil {
		return nil, err
	}

	input := &dto.CreateCategoryInput{
		MerchantID:  u.MerchantID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.SortOrder != nil {
		order := int(*req.SortOrder)
		input.SortOrder = &order
	}

	cat, err := h.uc.CreateCategory(ctx, input)
	if err != nil {
		return nil, h.fail("create category", err)
	}
	return &categoryv1.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) GetCategory(ctx context.Context, req *categoryv1.GetCategoryRequest) (*categoryv1.CategoryResponse, error) {
	u, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := h.uc.GetCategory(ctx, u.MerchantID, req.ID)
	if err != nil {
		return nil, h.fail("get category", err)
	}
	if !u.CanManage() && !cat.IsActive {
		return nil, status.Error(codes.NotFound, "category not found")
	}
	return &categoryv1.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *categoryv1.ListCategoriesRequest) (*categoryv1.ListCategoriesResponse, error) {
	u, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	filters := &dto.CategoryFilters{
		MerchantID: u.MerchantID,
		ParentID:   req.ParentID,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	}
	if req.ActiveOnly || !u.CanManage() {
		active := true
		filters.IsActive = &active
	}

	cats, count, err := h.uc.ListCategories(ctx, filters)
	if err != nil {
		return nil, h.fail("list categories", err)
	}

	protoCats := make([]*categoryv1.Category, len(cats))
	for i := range cats {
		protoCats[i] = mapModelToProto(&cats[i])
	}
	return &categoryv1.ListCategoriesResponse{
		Categories: protoCats,
		Total:      int32(count),
	}, nil
}

func (h *CategoryHandler) UpdateCategory(ctx context.Context, req *categoryv1.UpdateCategoryRequest) (*categoryv1.CategoryResponse, error) {
	u, err := manager(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := h.uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{
		ID:          req.ID,
		MerchantID:  u.MerchantID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   int(req.SortOrder),
		IsActive:    req.IsActive,
	})
	if err != nil {
		return nil, h.fail("update category", err)
	}
	return &categoryv1.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) DeleteCategory(ctx context.Context, req *categoryv1.DeleteCategoryRequest) (*categoryv1.Empty, error) {
	u, err := manager(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.uc.DeleteCategory(ctx, u.MerchantID, req.ID); err != nil {
		return nil, h.fail("delete category", err)
	}
	return &categoryv1.Empty{}, nil
}

func (h *CategoryHandler) SetCategoryActive(ctx context.Context, req *categoryv1.SetCategoryActiveRequest) (*categoryv1.CategoryResponse, error) {
	u, err := manager(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := h.uc.ToggleActive(ctx, &dto.ToggleActiveInput{ID: req.ID, MerchantID: u.MerchantID, IsActive: req.IsActive})
	if err != nil {
		return nil, h.fail("set category active", err)
	}
	return &categoryv1.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) GetCategoryTree(ctx context.Context, req *categoryv1.GetCategoryTreeRequest) (*categoryv1.GetCategoryTreeResponse, error) {
	u, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	view, err := h.uc.GetTree(ctx, &dto.TreeInput{
		MerchantID: u.MerchantID,
		UserID:     u.UserID,
		Query:      req.Query,
		ActiveOnly: !u.CanManage(),
	})
	if err != nil {
		return nil, h.fail("get category tree", err)
	}
	return &categoryv1.GetCategoryTreeResponse{
		Tree:     view.Tree,
		Expanded: view.Expanded,
		Visible:  view.Visible,
		Query:    view.Query,
	}, nil
}

func (h *CategoryHandler) ReorderCategories(ctx context.Context, req *categoryv1.ReorderCategoriesRequest) (*categoryv1.Empty, error) {
	u, err := manager(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.uc.ApplyReorder(ctx, &dto.ReorderInput{MerchantID: u.MerchantID, Instructions: req.Instructions}); err != nil {
		return nil, h.fail("reorder categories", err)
	}
	return &categoryv1.Empty{}, nil
}

func (h *CategoryHandler) MoveCategory(ctx context.Context, req *categoryv1.MoveCategoryRequest) (*categoryv1.MoveCategoryResponse, error) {
	u, err := manager(ctx)
	if err != nil {
		return nil, err
	}

	batch, err := h.uc.MoveCategory(ctx, &dto.MoveInput{
		MerchantID: u.MerchantID,
		UserID:     u.UserID,
		ActiveID:   req.ActiveID,
		OverID:     req.OverID,
		Query:      req.Query,
	})
	if err != nil {
		return nil, h.fail("move category", err)
	}
	if batch == nil {
		batch = []tree.Instruction{}
	}
	return &categoryv1.MoveCategoryResponse{Instructions: batch}, nil
}

func (h *CategoryHandler) GetExpanded(ctx context.Context, req *categoryv1.ExpandedRequest) (*categoryv1.ExpandedResponse, error) {
	return h.expanded(ctx, req, "get expanded", h.uc.GetExpanded)
}

func (h *CategoryHandler) ToggleExpanded(ctx context.Context, req *categoryv1.ExpandedRequest) (*categoryv1.ExpandedResponse, error) {
	return h.expanded(ctx, req, "toggle expanded", h.uc.ToggleExpanded)
}

func (h *CategoryHandler) ExpandAll(ctx context.Context, req *categoryv1.ExpandedRequest) (*categoryv1.ExpandedResponse, error) {
	return h.expanded(ctx, req, "expand all", h.uc.ExpandAll)
}

func (h *CategoryHandler) CollapseAll(ctx context.Context, req *categoryv1.ExpandedRequest) (*categoryv1.ExpandedResponse, error) {
	return h.expanded(ctx, req, "collapse all", h.uc.CollapseAll)
}

func (h *CategoryHandler) expanded(
	ctx context.Context,
	req *categoryv1.ExpandedRequest,
	op string,
	call func(context.Context, *dto.ExpandedInput) ([]string, error),
) (*categoryv1.ExpandedResponse, error) {
	u, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := call(ctx, &dto.ExpandedInput{MerchantID: u.MerchantID, UserID: u.UserID, CategoryID: req.CategoryID})
	if err != nil {
		return nil, h.fail(op, err)
	}
	return &categoryv1.ExpandedResponse{Expanded: ids}, nil
}

// fail logs server-side failures and converts err to a gRPC status.
func (h *CategoryHandler) fail(op string, err error) error {
	if apperror.HTTPStatus(err) >= 500 {
		h.logger.Error("failed to "+op, zap.Error(err))
	} else {
		h.logger.Debug(op+" rejected", zap.Error(err))
	}
	return apperror.GRPCStatus(err)
}

func caller(ctx context.Context) (auth.UserContext, error) {
	u, ok := auth.FromContext(ctx)
	if !ok || u.MerchantID == "" {
		return auth.UserContext{}, status.Error(codes.Unauthenticated, "missing merchant context")
	}
	return u, nil
}

func manager(ctx context.Context) (auth.UserContext, error) {
	u, err := caller(ctx)
	if err != nil {
		return u, err
	}
	if !u.CanManage() {
		return auth.UserContext{}, status.Error(codes.PermissionDenied, "read-only access")
	}
	return u, nil
}

// Helper to map model to proto
func mapModelToProto(m *model.Category) *categoryv1.Category {
	if m == nil {
		return nil
	}

	desc := ""
	if m.Description != nil {
		desc = *m.Description
	}

	imgURL := ""
	if m.ImageURL != nil {
		imgURL = *m.ImageURL
	}

	return &categoryv1.Category{
		ID:          m.ID,
		MerchantID:  m.MerchantID,
		ParentID:    m.ParentID,
		Name:        m.Name,
		Description: desc,
		ImageURL:    imgURL,
		SortOrder:   int32(m.SortOrder),
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
