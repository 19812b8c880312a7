package categoryv1

import (
	"context"

	"google.golang.org/grpc"
)

type CategoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCategoryServiceClient(cc grpc.ClientConnInterface) *CategoryServiceClient {
	return &CategoryServiceClient{cc: cc}
}

func (c *CategoryServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, FullMethod(method), in, out, opts...)
}

func (c *CategoryServiceClient) CreateCategory(ctx context.Context, in *CreateCategoryRequest, opts ...grpc.CallOption) (*CategoryResponse, error) {
	out := new(CategoryResponse)
	if err := c.invoke(ctx, MethodCreateCategory, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) GetCategory(ctx context.Context, in *GetCategoryRequest, opts ...grpc.CallOption) (*CategoryResponse, error) {
	out := new(CategoryResponse)
	if err := c.invoke(ctx, MethodGetCategory, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) ListCategories(ctx context.Context, in *ListCategoriesRequest, opts ...grpc.CallOption) (*ListCategoriesResponse, error) {
	out := new(ListCategoriesResponse)
	if err := c.invoke(ctx, MethodListCategories, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) UpdateCategory(ctx context.Context, in *UpdateCategoryRequest, opts ...grpc.CallOption) (*CategoryResponse, error) {
	out := new(CategoryResponse)
	if err := c.invoke(ctx, MethodUpdateCategory, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) DeleteCategory(ctx context.Context, in *DeleteCategoryRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, MethodDeleteCategory, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) SetCategoryActive(ctx context.Context, in *SetCategoryActiveRequest, opts ...grpc.CallOption) (*CategoryResponse, error) {
	out := new(CategoryResponse)
	if err := c.invoke(ctx, MethodSetCategoryActive, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) GetCategoryTree(ctx context.Context, in *GetCategoryTreeRequest, opts ...grpc.CallOption) (*GetCategoryTreeResponse, error) {
	out := new(GetCategoryTreeResponse)
	if err := c.invoke(ctx, MethodGetCategoryTree, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) ReorderCategories(ctx context.Context, in *ReorderCategoriesRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, MethodReorderCategories, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) MoveCategory(ctx context.Context, in *MoveCategoryRequest, opts ...grpc.CallOption) (*MoveCategoryResponse, error) {
	out := new(MoveCategoryResponse)
	if err := c.invoke(ctx, MethodMoveCategory, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) GetExpanded(ctx context.Context, in *ExpandedRequest, opts ...grpc.CallOption) (*ExpandedResponse, error) {
	out := new(ExpandedResponse)
	if err := c.invoke(ctx, MethodGetExpanded, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) ToggleExpanded(ctx context.Context, in *ExpandedRequest, opts ...grpc.CallOption) (*ExpandedResponse, error) {
	out := new(ExpandedResponse)
	if err := c.invoke(ctx, MethodToggleExpanded, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) ExpandAll(ctx context.Context, in *ExpandedRequest, opts ...grpc.CallOption) (*ExpandedResponse, error) {
	out := new(ExpandedResponse)
	if err := c.invoke(ctx, MethodExpandAll, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CategoryServiceClient) CollapseAll(ctx context.Context, in *ExpandedRequest, opts ...grpc.CallOption) (*ExpandedResponse, error) {
	out := new(ExpandedResponse)
	if err := c.invoke(ctx, MethodCollapseAll, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
