package controller

import (
	"errors"
	"strconv"

	"trailhunt_backend/internal/service"
	"trailhunt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// HuntController 参赛者的比赛主流程：领取序列、取当前题、提交答案
type HuntController struct {
	AssignmentService  *service.AssignmentService
	ProgressionService *service.ProgressionService
	AnswerService      *service.AnswerService
	StorageService     *service.StorageService
}

func NewHuntController(
	assignmentService *service.AssignmentService,
	progressionService *service.ProgressionService,
	answerService *service.AnswerService,
	storageService *service.StorageService,
) *HuntController {
	return &HuntController{
		AssignmentService:  assignmentService,
		ProgressionService: progressionService,
		AnswerService:      answerService,
		StorageService:     storageService,
	}
}

// Setup godoc
// @Summary 领取题目序列
// @Description 为当前参赛者生成一次性的个人题目序列；重复调用返回 409
// @Tags 比赛
// @Produce  json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response "分配完成"
// @Failure 409 {object} util.Response "已分配过"
// @Router /api/hunt/setup [post]
func (c *HuntController) Setup(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AssignmentService.Assign(claims.UserID); err != nil {
		if errors.Is(err, util.ErrAlreadyAssigned) {
			util.Conflict(ctx, "questions already assigned")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, nil)
}

// CurrentQuestion godoc
// @Summary 当前题目
// @Description 返回下一道未答题目及进度计数；bonus=true 时取附加题序列
// @Tags 比赛
// @Produce  json
// @Security ApiKeyAuth
// @Param   bonus query bool false "是否请求附加题"
// @Success 200 {object} util.Response{data=service.CurrentQuestionResult} "成功"
// @Router /api/hunt/current-question [get]
func (c *HuntController) CurrentQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	wantsBonus := ctx.Query("bonus") == "true"
	result, err := c.ProgressionService.CurrentQuestion(claims.UserID, wantsBonus)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Submit godoc
// @Summary 提交答案
// @Description 对指定题目提交文本和/或图片答案，每道题只能提交一次
// @Tags 比赛
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   questionId path int true "题目ID"
// @Param   text_answer formData string false "文本答案"
// @Param   image formData file false "图片答案"
// @Success 201 {object} util.Response{data=model.Answer} "提交成功"
// @Failure 400 {object} util.Response "缺少必需的图片"
// @Failure 404 {object} util.Response "题目不存在"
// @Failure 403 {object} util.Response "题目不在分配序列内"
// @Failure 409 {object} util.Response "已提交过"
// @Router /api/hunt/submit/{questionId} [post]
func (c *HuntController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	questionID, err := strconv.ParseUint(ctx.Param("questionId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	imageURL, imageName := "", ""
	if file, ferr := ctx.FormFile("image"); ferr == nil {
		var uerr error
		imageURL, imageName, uerr = c.StorageService.SaveImage(ctx.Request.Context(), file)
		if uerr != nil {
			util.BadRequest(ctx, uerr.Error())
			return
		}
	}

	answer, err := c.AnswerService.Submit(claims.UserID, uint(questionID), ctx.PostForm("text_answer"), imageURL)
	if err != nil {
		// 提交被拒时清掉已上传的图片，避免孤儿文件
		if imageName != "" {
			c.StorageService.Delete(ctx.Request.Context(), imageName)
		}
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotAssigned):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrAlreadyAnswered):
			util.Conflict(ctx, "question already answered")
		case errors.Is(err, util.ErrImageRequired):
			util.BadRequest(ctx, "this question requires an image answer")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, answer)
}

// MyAnswers godoc
// @Summary 我的提交记录
// @Tags 比赛
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Answer} "成功"
// @Router /api/hunt/answers [get]
func (c *HuntController) MyAnswers(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	answers, err := c.AnswerService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, answers)
}
