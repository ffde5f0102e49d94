package main

import (
	"flag"
	"fmt"

	"github.com/angelxlakra/pulse-be/internal/config"
	"github.com/angelxlakra/pulse-be/internal/handler"
	"github.com/angelxlakra/pulse-be/internal/middleware"
	"github.com/angelxlakra/pulse-be/internal/svc"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "configs/pulse.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)

	// 初始化日志
	logx.MustSetup(logx.LogConf{
		ServiceName:         c.Log.ServiceName,
		Mode:                c.Log.Mode,
		Path:                c.Log.Path,
		Level:               c.Log.Level,
		Compress:            c.Log.Compress,
		KeepDays:            c.Log.KeepDays,
		StackCooldownMillis: c.Log.StackCooldownMillis,
	})

	// 创建REST服务器
	server := rest.MustNewServer(c.RestConf, rest.WithCors())
	defer server.Stop()

	// 创建服务上下文
	ctx := svc.NewServiceContext(c)
	defer ctx.Close()

	// 注册全局中间件
	server.Use(middleware.RequestIDMiddleware)
	server.Use(middleware.LoggerMiddleware(ctx.Logger))
	server.Use(middleware.MetricsMiddleware(ctx.Metrics))

	if c.RateLimit.Enable {
		server.Use(middleware.RateLimitMiddleware(c.RateLimit))
	}

	if c.Tracing.Enable {
		server.Use(middleware.TracingMiddleware(ctx.Tracer))
	}

	// 注册路由
	handler.RegisterHandlers(server, ctx)

	// 启动服务
	fmt.Printf("Starting pulse backend at %s:%d...\n", c.Host, c.Port)
	logx.Infof("pulse backend started at %s:%d", c.Host, c.Port)

	server.Start()
}
