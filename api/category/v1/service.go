package categoryv1

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "omnipos.backoffice.v1.CategoryService"

// Method names, as they appear after the service in the full method path.
const (
	MethodCreateCategory    = "CreateCategory"
	MethodGetCategory       = "GetCategory"
	MethodListCategories    = "ListCategories"
	MethodUpdateCategory    = "UpdateCategory"
	MethodDeleteCategory    = "DeleteCategory"
	MethodSetCategoryActive = "SetCategoryActive"
	MethodGetCategoryTree   = "GetCategoryTree"
	MethodReorderCategories = "ReorderCategories"
	MethodMoveCategory      = "MoveCategory"
	MethodGetExpanded       = "GetExpanded"
	MethodToggleExpanded    = "ToggleExpanded"
	MethodExpandAll         = "ExpandAll"
	MethodCollapseAll       = "CollapseAll"
)

// FullMethod returns the path a client invokes for method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type CategoryServiceServer interface {
	CreateCategory(context.Context, *CreateCategoryRequest) (*CategoryResponse, error)
	GetCategory(context.Context, *GetCategoryRequest) (*CategoryResponse, error)
	ListCategories(context.Context, *ListCategoriesRequest) (*ListCategoriesResponse, error)
	UpdateCategory(context.Context, *UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(context.Context, *DeleteCategoryRequest) (*Empty, error)
	SetCategoryActive(context.Context, *SetCategoryActiveRequest) (*CategoryResponse, error)
	GetCategoryTree(context.Context, *GetCategoryTreeRequest) (*GetCategoryTreeResponse, error)
	ReorderCategories(context.Context, *ReorderCategoriesRequest) (*Empty, error)
	MoveCategory(context.Context, *MoveCategoryRequest) (*MoveCategoryResponse, error)
	GetExpanded(context.Context, *ExpandedRequest) (*ExpandedResponse, error)
	ToggleExpanded(context.Context, *ExpandedRequest) (*ExpandedResponse, error)
	ExpandAll(context.Context, *ExpandedRequest) (*ExpandedResponse, error)
	CollapseAll(context.Context, *ExpandedRequest) (*ExpandedResponse, error)
}

func RegisterCategoryServiceServer(s grpc.ServiceRegistrar, srv CategoryServiceServer) {
	s.RegisterService(&CategoryService_ServiceDesc, srv)
}

var CategoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CategoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodCreateCategory, CategoryServiceServer.CreateCategory),
		unary(MethodGetCategory, CategoryServiceServer.GetCategory),
		unary(MethodListCategories, CategoryServiceServer.ListCategories),
		unary(MethodUpdateCategory, CategoryServiceServer.UpdateCategory),
		unary(MethodDeleteCategory, CategoryServiceServer.DeleteCategory),
		unary(MethodSetCategoryActive, CategoryServiceServer.SetCategoryActive),
		unary(MethodGetCategoryTree, CategoryServiceServer.GetCategoryTree),
		unary(MethodReorderCategories, CategoryServiceServer.ReorderCategories),
		unary(MethodMoveCategory, CategoryServiceServer.MoveCategory),
		unary(MethodGetExpanded, CategoryServiceServer.GetExpanded),
		unary(MethodToggleExpanded, CategoryServiceServer.ToggleExpanded),
		unary(MethodExpandAll, CategoryServiceServer.ExpandAll),
		unary(MethodCollapseAll, CategoryServiceServer.CollapseAll),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "omnipos/backoffice/v1/category",
}

// unary adapts a typed server method to grpc.MethodDesc, running it through
// the server's interceptor chain the way generated stubs do.
func unary[Req, Resp any](name string, call func(CategoryServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CategoryServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CategoryServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
