package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-backoffice/internal/apperror"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/category"
	"github.com/fekuna/omnipos-backoffice/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
	"github.com/fekuna/omnipos-backoffice/internal/logger"
	"github.com/fekuna/omnipos-backoffice/internal/response"
)

// HTTPHandler serves the category REST API. Handlers expect an
// authenticated user in the request context.
type HTTPHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewHTTPHandler(uc category.UseCase, log logger.ZapLogger) *HTTPHandler {
	return &HTTPHandler{uc: uc, logger: log}
}

// Routes returns the router to mount at /categories.
func (h *HTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListCategories)
	r.Get("/tree", h.GetTree)
	r.Route("/expanded", func(r chi.Router) {
		r.Get("/", h.GetExpanded)
		r.Post("/toggle", h.ToggleExpanded)
		r.Post("/expand-all", h.ExpandAll)
		r.Post("/collapse-all", h.CollapseAll)
	})
	r.Get("/{id}", h.GetCategory)

	r.Group(func(r chi.Router) {
		r.Use(requireManager)
		r.Post("/", h.CreateCategory)
		r.Put("/reorder", h.Reorder)
		r.Post("/move", h.Move)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
		r.Patch("/{id}/active", h.SetActive)
	})
	return r
}

type createCategoryRequest struct {
	ParentID    *string `json:"parentId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	SortOrder   *int    `json:"sortOrder"`
}

type updateCategoryRequest struct {
	ParentID    *string `json:"parentId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	SortOrder   int     `json:"sortOrder"`
	IsActive    bool    `json:"isActive"`
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

type moveRequest struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
	Query    string `json:"query"`
}

type toggleRequest struct {
	CategoryID string `json:"categoryId"`
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	u := user(r)
	q := r.URL.Query()

	filters := &dto.CategoryFilters{MerchantID: u.MerchantID}
	if q.Has("parentId") {
		parent := q.Get("parentId")
		filters.ParentID = &parent
	}
	if q.Get("active") == "true" || !u.CanManage() {
		active := true
		filters.IsActive = &active
	}
	var err error
	if filters.Page, err = intParam(q.Get("page")); err != nil {
		response.Error(w, r, err)
		return
	}
	if filters.PageSize, err = intParam(q.Get("pageSize")); err != nil {
		response.Error(w, r, err)
		return
	}

	cats, count, err := h.uc.ListCategories(r.Context(), filters)
	if err != nil {
		h.fail(w, r, "list categories", err)
		return
	}
	response.WithMeta(w, r, http.StatusOK, cats, &response.MetaInfo{
		Pagination: response.NewPagination(filters.Page, filters.PageSize, count),
	})
}

func (h *HTTPHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	u := user(r)
	view, err := h.uc.GetTree(r.Context(), &dto.TreeInput{
		MerchantID: u.MerchantID,
		UserID:     u.UserID,
		Query:      r.URL.Query().Get("q"),
		ActiveOnly: !u.CanManage(),
	})
	if err != nil {
		h.fail(w, r, "get category tree", err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	u := user(r)
	cat, err := h.uc.GetCategory(r.Context(), u.MerchantID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get category", err)
		return
	}
	if !u.CanManage() && !cat.IsActive {
		response.Error(w, r, apperror.NewNotFoundError("category"))
		return
	}
	response.JSON(w, http.StatusOK, cat)
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	cat, err := h.uc.CreateCategory(r.Context(), &dto.CreateCategoryInput{
		MerchantID:  user(r).MerchantID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.fail(w, r, "create category", err)
		return
	}
	response.JSON(w, http.StatusCreated, cat)
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	cat, err := h.uc.UpdateCategory(r.Context(), &dto.UpdateCategoryInput{
		ID:          chi.URLParam(r, "id"),
		MerchantID:  user(r).MerchantID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.fail(w, r, "update category", err)
		return
	}
	response.JSON(w, http.StatusOK, cat)
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteCategory(r.Context(), user(r).MerchantID, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	if req.IsActive == nil {
		response.Error(w, r, apperror.NewValidationError("isActive is required"))
		return
	}

	cat, err := h.uc.ToggleActive(r.Context(), &dto.ToggleActiveInput{
		ID:         chi.URLParam(r, "id"),
		MerchantID: user(r).MerchantID,
		IsActive:   *req.IsActive,
	})
	if err != nil {
		h.fail(w, r, "set category active", err)
		return
	}
	response.JSON(w, http.StatusOK, cat)
}

// Reorder applies a batch computed by the client after a drag.
func (h *HTTPHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var batch []tree.Instruction
	if err := response.DecodeJSON(w, r, &batch); err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.uc.ApplyReorder(r.Context(), &dto.ReorderInput{MerchantID: user(r).MerchantID, Instructions: batch}); err != nil {
		h.fail(w, r, "reorder categories", err)
		return
	}
	response.JSON(w, http.StatusOK, batch)
}

// Move computes and applies the batch for a drag end on the server. A drop
// that changes nothing answers 200 with an empty list.
func (h *HTTPHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	u := user(r)
	batch, err := h.uc.MoveCategory(r.Context(), &dto.MoveInput{
		MerchantID: u.MerchantID,
		UserID:     u.UserID,
		ActiveID:   req.ActiveID,
		OverID:     req.OverID,
		Query:      req.Query,
	})
	if err != nil {
		h.fail(w, r, "move category", err)
		return
	}
	if batch == nil {
		batch = []tree.Instruction{}
	}
	response.JSON(w, http.StatusOK, batch)
}

func (h *HTTPHandler) GetExpanded(w http.ResponseWriter, r *http.Request) {
	h.expanded(w, r, "get expanded", "", h.uc.GetExpanded)
}

func (h *HTTPHandler) ToggleExpanded(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	h.expanded(w, r, "toggle expanded", req.CategoryID, h.uc.ToggleExpanded)
}

func (h *HTTPHandler) ExpandAll(w http.ResponseWriter, r *http.Request) {
	h.expanded(w, r, "expand all", "", h.uc.ExpandAll)
}

func (h *HTTPHandler) CollapseAll(w http.ResponseWriter, r *http.Request) {
	h.expanded(w, r, "collapse all", "", h.uc.CollapseAll)
}

func (h *HTTPHandler) expanded(
	w http.ResponseWriter,
	r *http.Request,
	op, categoryID string,
	call func(ctx context.Context, in *dto.ExpandedInput) ([]string, error),
) {
	u := user(r)
	ids, err := call(r.Context(), &dto.ExpandedInput{MerchantID: u.MerchantID, UserID: u.UserID, CategoryID: categoryID})
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	response.JSON(w, http.StatusOK, ids)
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if apperror.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Error("failed to "+op, zap.Error(err))
	}
	response.Error(w, r, err)
}

func requireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !user(r).CanManage() {
			response.Error(w, r, apperror.NewForbiddenError("read-only access"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func user(r *http.Request) auth.UserContext {
	u, _ := auth.FromContext(r.Context())
	return u
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperror.NewValidationError("page and pageSize must be non-negative integers")
	}
	return n, nil
}
