package config

import (
	"github.com/angelxlakra/pulse-be/internal/tracing"
	"github.com/zeromicro/go-zero/rest"
)

// Config Pulse后端配置
type Config struct {
	rest.RestConf

	// 日志配置
	Log LogConfig `json:",optional"`

	// 会话配置
	Session SessionConfig `json:",optional"`

	// 限流配置
	RateLimit RateLimitConfig `json:",optional"`

	// 链路追踪配置
	Tracing tracing.Config `json:",optional"`
}

// LogConfig 日志配置
type LogConfig struct {
	ServiceName         string `json:",default=pulse-be"`
	Mode                string `json:",default=console,options=console|file|volume"`
	Path                string `json:",default=logs/pulse"`
	Level               string `json:",default=info,options=debug|info|warn|error"`
	Compress            bool   `json:",default=false"`
	KeepDays            int    `json:",default=7"`
	StackCooldownMillis int    `json:",default=100"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	// GraceWindowSeconds 断连后成员记录保留时长（秒），期间重连可恢复状态
	GraceWindowSeconds int `json:",default=300"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enable bool `json:",default=false"`
	Rate   int  `json:",default=100"` // 每秒请求数
	Burst  int  `json:",default=200"` // 突发容量
}
