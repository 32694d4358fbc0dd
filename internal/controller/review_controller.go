package controller

import (
	"errors"
	"strconv"

	"trailhunt_backend/internal/repository"
	"trailhunt_backend/internal/service"
	"trailhunt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ReviewController 管理员审核面板：参赛者列表、提交记录、审核结论
type ReviewController struct {
	AnswerService *service.AnswerService
	UserRepo      *repository.UserRepository
}

func NewReviewController(answerService *service.AnswerService, userRepo *repository.UserRepository) *ReviewController {
	return &ReviewController{
		AnswerService: answerService,
		UserRepo:      userRepo,
	}
}

// ListParticipants godoc
// @Summary 参赛者列表
// @Tags 审核
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Router /api/admin/participants [get]
func (c *ReviewController) ListParticipants(ctx *gin.Context) {
	users, err := c.UserRepo.ListParticipants()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// ParticipantAnswers godoc
// @Summary 某参赛者的全部提交
// @Tags 审核
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "参赛者ID"
// @Success 200 {object} util.Response{data=[]model.Answer} "成功"
// @Router /api/admin/participants/{id}/answers [get]
func (c *ReviewController) ParticipantAnswers(ctx *gin.Context) {
	participantID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid participant id")
		return
	}

	answers, err := c.AnswerService.ListForUser(uint(participantID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, answers)
}

// ReviewRequest 审核结论
// swagger:model ReviewRequest
type ReviewRequest struct {
	Accepted *bool  `json:"accepted" binding:"required"`
	Feedback string `json:"feedback"`
}

// ReviewAnswer godoc
// @Summary 审核提交
// @Description 记录通过/驳回结论；允许重复审核以纠正误判
// @Tags 审核
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "参赛者ID"
// @Param   answerId path int true "答案ID"
// @Param   body body ReviewRequest true "审核结论"
// @Success 200 {object} util.Response{data=model.Answer} "成功"
// @Failure 404 {object} util.Response "答案不存在"
// @Router /api/admin/participants/{id}/answers/{answerId}/review [post]
func (c *ReviewController) ReviewAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	participantID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid participant id")
		return
	}
	answerID, err := strconv.ParseUint(ctx.Param("answerId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid answer id")
		return
	}

	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AnswerService.Review(uint(participantID), uint(answerID), *req.Accepted, claims.UserID, req.Feedback)
	if err != nil {
		if errors.Is(err, util.ErrAnswerNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, answer)
}
