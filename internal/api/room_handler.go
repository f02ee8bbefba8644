package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/poker-pool/internal/errors"
	"github.com/wfunc/poker-pool/internal/middleware"
	"github.com/wfunc/poker-pool/internal/service"
)

// RoomHandler 房间处理器
type RoomHandler struct {
	roomService service.RoomService
}

// NewRoomHandler 创建房间处理器
func NewRoomHandler(roomService service.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

// SelectRequest 选牌请求，index为手牌位置
// 用指针区分缺省与位置0
type SelectRequest struct {
	Index *int `json:"index" binding:"required"`
}

// DrawRequest 补牌请求，需显式确认
type DrawRequest struct {
	Confirm bool `json:"confirm"`
}

// Create 创建房间
// @Summary 创建房间
// @Description 创建新房间，当前用户为房主，返回6位房间码
// @Tags Room
// @Security Bearer
// @Produce json
// @Success 200 {object} service.RoomView
// @Router /api/v1/rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	uid, _ := middleware.GetUID(c)
	name, _ := middleware.GetNickname(c)

	view, err := h.roomService.CreateRoom(c.Request.Context(), uid, name)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Get 读取房间快照
// @Summary 读取房间快照
// @Tags Room
// @Security Bearer
// @Produce json
// @Param code path string true "房间码"
// @Success 200 {object} service.RoomView
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/rooms/{code} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	view, err := h.roomService.GetRoom(c.Request.Context(), roomCode(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Join 加入房间
// @Summary 加入房间
// @Description 已在房间内时为幂等空操作
// @Tags Room
// @Security Bearer
// @Produce json
// @Param code path string true "房间码"
// @Success 200 {object} service.RoomView
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/rooms/{code}/join [post]
func (h *RoomHandler) Join(c *gin.Context) {
	uid, _ := middleware.GetUID(c)
	name, _ := middleware.GetNickname(c)

	view, err := h.roomService.JoinRoom(c.Request.Context(), roomCode(c), uid, name)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Start 开局发牌
// @Summary 开局发牌
// @Description 仅房主可操作，给每位玩家发7张牌
// @Tags Room
// @Security Bearer
// @Produce json
// @Param code path string true "房间码"
// @Success 200 {object} service.RoomView
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/rooms/{code}/start [post]
func (h *RoomHandler) Start(c *gin.Context) {
	uid, _ := middleware.GetUID(c)

	view, err := h.roomService.StartGame(c.Request.Context(), roomCode(c), uid)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Select 翻转手牌打出状态
// @Summary 翻转手牌打出状态
// @Description 打出手牌最后一张时对局结束并记录历史
// @Tags Room
// @Security Bearer
// @Accept json
// @Produce json
// @Param code path string true "房间码"
// @Param request body SelectRequest true "手牌位置"
// @Success 200 {object} service.RoomView
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/rooms/{code}/select [post]
func (h *RoomHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uid, _ := middleware.GetUID(c)

	view, err := h.roomService.ToggleCard(c.Request.Context(), roomCode(c), uid, *req.Index)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Draw 犯规补牌
// @Summary 犯规补牌
// @Description 需要confirm确认，从共享牌堆顶部取一张
// @Tags Room
// @Security Bearer
// @Accept json
// @Produce json
// @Param code path string true "房间码"
// @Param request body DrawRequest true "确认标记"
// @Success 200 {object} service.RoomView
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/rooms/{code}/draw [post]
func (h *RoomHandler) Draw(c *gin.Context) {
	var req DrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.Confirm {
		handleServiceError(c, apperrors.New(apperrors.ErrInvalidParam, "补牌需要确认"))
		return
	}

	uid, _ := middleware.GetUID(c)

	view, err := h.roomService.DrawCard(c.Request.Context(), roomCode(c), uid)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// roomCode 提取路径中的房间码，小写输入统一转为大写
func roomCode(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("code")))
}
