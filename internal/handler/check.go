package handler

import (
	"encoding/json"
	"net/http"

	"github.com/angelxlakra/pulse-be/internal/svc"
	"github.com/zeromicro/go-zero/rest/httpx"
	"go.uber.org/zap"
)

// CheckTelegramIDRequest 存在性检查请求
type CheckTelegramIDRequest struct {
	TelegramID string `path:"telegramId"`
}

// CheckTelegramIDResponse 存在性检查响应
type CheckTelegramIDResponse struct {
	Exists bool `json:"exists"`
}

// CheckTelegramIDHandler 检查某个 Telegram ID 是否在任一会话中
// 只读查询，无副作用
func CheckTelegramIDHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckTelegramIDRequest
		if err := httpx.Parse(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		exists := svcCtx.Store.Exists(req.TelegramID)

		svcCtx.Logger.Info("telegram id existence checked",
			zap.String("telegram_id", req.TelegramID),
			zap.Bool("exists", exists))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(CheckTelegramIDResponse{Exists: exists})
	}
}
