package controller

import (
	"strconv"
	"time"

	"trailhunt_backend/internal/service"
	"trailhunt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// Results godoc
// @Summary 排行榜
// @Description 按总分降序、同分用时升序的完整榜单
// @Tags 排行榜
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry} "成功"
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Results(ctx *gin.Context) {
	entries, err := c.LeaderboardService.Results(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Changes godoc
// @Summary 增量变更
// @Description 返回严格晚于 since 的提交/审核事件和新的轮询游标；可按参赛者过滤
// @Tags 排行榜
// @Produce  json
// @Security ApiKeyAuth
// @Param   since query string false "上次返回的游标，RFC3339"
// @Param   participantId query int false "只看某个参赛者"
// @Success 200 {object} util.Response{data=service.ChangesResult} "成功"
// @Failure 400 {object} util.Response "游标格式错误"
// @Router /api/leaderboard/changes [get]
func (c *LeaderboardController) Changes(ctx *gin.Context) {
	var since time.Time
	if raw := ctx.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			util.BadRequest(ctx, "since must be RFC3339")
			return
		}
		since = parsed
	}

	var userID *uint
	if raw := ctx.Query("participantId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			util.BadRequest(ctx, "invalid participant id")
			return
		}
		id := uint(parsed)
		userID = &id
	}

	result, err := c.LeaderboardService.ChangesSince(since, userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
