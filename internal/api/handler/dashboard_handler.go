package handler

import (
	"github.com/gin-gonic/gin"

	"aether-lms/backend/internal/service"
	"aether-lms/backend/pkg/response"
)

// DashboardHandler 仪表盘、最近反馈与待办 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetDashboard 按角色返回仪表盘
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.dashboardSvc.BuildDashboard(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// GetRecentFeedback 当前用户收到的最近反馈
// GET /api/v1/feedback/recent
func (h *DashboardHandler) GetRecentFeedback(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.dashboardSvc.GetFeedback(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// GetTodos 当前用户的待办
// GET /api/v1/todos
func (h *DashboardHandler) GetTodos(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.dashboardSvc.GetTodos(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}
