package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/poker-pool/internal/middleware"
	"github.com/wfunc/poker-pool/internal/service"
)

// HistoryHandler 对局历史处理器
type HistoryHandler struct {
	historyService service.HistoryService
}

// NewHistoryHandler 创建历史处理器
func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// GetHistory 查询当前玩家的对局历史
// @Summary 查询对局历史
// @Description 按完成时间倒序返回当前玩家参与过的对局，可按胜负过滤
// @Tags History
// @Security Bearer
// @Produce json
// @Param filter query string false "过滤条件: all/won/lost" default(all)
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} service.HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/history [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	uid, _ := middleware.GetUID(c)

	filter := c.DefaultQuery("filter", service.HistoryFilterAll)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.historyService.GetPlayerHistory(c.Request.Context(), uid, filter, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
