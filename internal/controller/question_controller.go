package controller

import (
	"errors"
	"strconv"

	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/service"
	"trailhunt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	StorageService  *service.StorageService
}

func NewQuestionController(questionService *service.QuestionService, storageService *service.StorageService) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		StorageService:  storageService,
	}
}

// CreateQuestion godoc
// @Summary 新建题目
// @Description 管理员创建题目，可附带配图
// @Tags 题库
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   text formData string true "题目文本"
// @Param   points formData int true "分值，正整数"
// @Param   requires_image formData bool false "是否要求图片答案"
// @Param   is_bonus formData bool false "是否附加题"
// @Param   image formData file false "题目配图"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	text := ctx.PostForm("text")
	points, err := strconv.Atoi(ctx.PostForm("points"))
	if text == "" || err != nil || points <= 0 {
		util.BadRequest(ctx, "question text and a positive points value are required")
		return
	}

	question := &model.Question{
		Text:          text,
		Points:        points,
		RequiresImage: ctx.PostForm("requires_image") == "true",
		IsBonus:       ctx.PostForm("is_bonus") == "true",
	}

	imageName := ""
	if file, err := ctx.FormFile("image"); err == nil {
		url, name, uerr := c.StorageService.SaveImage(ctx.Request.Context(), file)
		if uerr != nil {
			util.BadRequest(ctx, uerr.Error())
			return
		}
		question.ImageURL = url
		imageName = name
	}

	if err := c.QuestionService.Create(question); err != nil {
		if imageName != "" {
			c.StorageService.Delete(ctx.Request.Context(), imageName)
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// ListQuestions godoc
// @Summary 题目列表
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Router /api/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// UpdateQuestionRequest 题目编辑请求
// swagger:model UpdateQuestionRequest
type UpdateQuestionRequest struct {
	Text          *string `json:"text"`
	Points        *int    `json:"points"`
	RequiresImage *bool   `json:"requiresImage"`
	IsBonus       *bool   `json:"isBonus"`
}

// UpdateQuestion godoc
// @Summary 编辑题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body UpdateQuestionRequest true "修改内容"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/admin/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Get(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Points != nil {
		if *req.Points <= 0 {
			util.BadRequest(ctx, "points must be positive")
			return
		}
		question.Points = *req.Points
	}
	if req.RequiresImage != nil {
		question.RequiresImage = *req.RequiresImage
	}
	if req.IsBonus != nil {
		question.IsBonus = *req.IsBonus
	}

	if err := c.QuestionService.Update(question); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Description 已被分配或已有提交的题目拒绝删除
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Failure 409 {object} util.Response "题目仍被引用"
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	if err := c.QuestionService.Delete(uint(id)); err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuestionReferenced):
			util.Conflict(ctx, "question is referenced by assignments or answers")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ImportQuestions godoc
// @Summary 批量导入题目
// @Description 上传 CSV（question,points,requires_image,is_bonus），返回逐行导入报告
// @Tags 题库
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "CSV 文件"
// @Success 200 {object} util.Response{data=service.ImportReport} "成功"
// @Failure 400 {object} util.Response "文件缺失或格式错误"
// @Router /api/admin/questions/import [post]
func (c *QuestionController) ImportQuestions(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "csv file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer file.Close()

	report, err := c.QuestionService.ImportCSV(file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, report)
}
