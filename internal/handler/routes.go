package handler

import (
	"github.com/angelxlakra/pulse-be/internal/svc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/rest"
)

// RegisterHandlers 注册所有路由
func RegisterHandlers(server *rest.Server, svcCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  "GET",
				Path:    "/health",
				Handler: HealthCheckHandler(svcCtx),
			},
			{
				Method:  "GET",
				Path:    "/ping",
				Handler: PingHandler(svcCtx),
			},
			{
				Method:  "GET",
				Path:    "/version",
				Handler: VersionHandler(svcCtx),
			},
			{
				Method:  "GET",
				Path:    "/metrics",
				Handler: promhttp.Handler().ServeHTTP,
			},
			{
				Method:  "GET",
				Path:    "/ws",
				Handler: WebSocketHandler(svcCtx),
			},
			{
				Method:  "GET",
				Path:    "/ws/stats",
				Handler: WebSocketStatsHandler(svcCtx),
			},
			{
				Method:  "GET",
				Path:    "/check-telegram-id/:telegramId",
				Handler: CheckTelegramIDHandler(svcCtx),
			},
		},
	)
}
