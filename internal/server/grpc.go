package server

import (
	"google.golang.org/grpc"

	categoryv1 "github.com/fekuna/omnipos-backoffice/api/category/v1"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	catH "github.com/fekuna/omnipos-backoffice/internal/category/handler"
	"github.com/fekuna/omnipos-backoffice/internal/logger"
	"github.com/fekuna/omnipos-backoffice/internal/metrics"
	"github.com/fekuna/omnipos-backoffice/internal/middleware"
)

// NewGRPCServer returns a server with the category service registered behind
// recovery, logging and authentication interceptors, in that order.
func NewGRPCServer(h *catH.CategoryHandler, a *auth.Authenticator, log logger.ZapLogger, m *metrics.Collector) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.RecoveryInterceptor(log),
			middleware.LoggingInterceptor(log, m),
			middleware.ContextInterceptor(a),
		),
	)
	categoryv1.RegisterCategoryServiceServer(srv, h)
	return srv
}
