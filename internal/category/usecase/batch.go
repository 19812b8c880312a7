package usecase

import (
	"fmt"

	"github.com/fekuna/omnipos-backoffice/internal/apperror"
	"github.com/fekuna/omnipos-backoffice/internal/category/tree"
)

// validateBatch checks a reorder batch against the merchant's current rows.
// Every sibling group the batch writes into must end up with distinct orders.
func validateBatch(records []tree.Record, batch []tree.Instruction) error {
	if len(batch) == 0 {
		return apperror.NewValidationError("reorder batch is empty")
	}
	if len(batch) > MaxBatchSize {
		return apperror.NewValidationError(fmt.Sprintf("reorder batch exceeds %d instructions", MaxBatchSize))
	}

	byID := make(map[string]tree.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	seen := make(map[string]bool, len(batch))
	for _, in := range batch {
		switch {
		case in.CategoryID == "":
			return apperror.NewValidationError("categoryId is required")
		case seen[in.CategoryID]:
			return apperror.NewValidationError("category appears more than once in the batch").
				WithDetails(map[string]interface{}{"categoryId": in.CategoryID})
		case in.NewOrder < 0:
			return apperror.NewValidationError("newOrder must be zero or greater").
				WithDetails(map[string]interface{}{"categoryId": in.CategoryID})
		}
		seen[in.CategoryID] = true

		if _, ok := byID[in.CategoryID]; !ok {
			return apperror.NewNotFoundError("category").
				WithDetails(map[string]interface{}{"categoryId": in.CategoryID})
		}
		if in.Reparent && in.NewParentID != nil {
			if _, ok := byID[*in.NewParentID]; !ok {
				return apperror.NewNotFoundError("parent category").
					WithDetails(map[string]interface{}{"categoryId": *in.NewParentID})
			}
		}
	}

	after := tree.Apply(records, batch)
	touched := make(map[string]bool)
	for _, r := range after {
		if !seen[r.ID] {
			continue
		}
		if tree.Descends(after, r.ID, r.ID) {
			return apperror.NewValidationError("batch would make a category its own ancestor").
				WithDetails(map[string]interface{}{"categoryId": r.ID})
		}
		touched[groupKey(r.ParentID)] = true
	}

	orders := make(map[string]map[int]string)
	for _, r := range after {
		g := groupKey(r.ParentID)
		if !touched[g] {
			continue
		}
		if orders[g] == nil {
			orders[g] = make(map[int]string)
		}
		if other, dup := orders[g][r.Order]; dup {
			return apperror.NewValidationError("batch leaves two siblings with the same order").
				WithDetails(map[string]interface{}{
					"categoryIds": []string{other, r.ID},
					"order":       r.Order,
				})
		}
		orders[g][r.Order] = r.ID
	}
	return nil
}

func groupKey(parentID *string) string {
	if parentID == nil {
		return ""
	}
	return *parentID
}
