package controller

import (
	"math_quest_backend/internal/middleware"
	"math_quest_backend/internal/model"
	"math_quest_backend/internal/service"
	"math_quest_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LedgerController struct {
	Runtime *service.Runtime
}

func NewLedgerController(runtime *service.Runtime) *LedgerController {
	return &LedgerController{Runtime: runtime}
}

// AddQuestRequest 创建任务请求
type AddQuestRequest struct {
	ID        *uint64 `json:"id" binding:"required"`
	Operation string  `json:"operation" binding:"required"`
}

// SubmitSolutionRequest 提交答案请求
type SubmitSolutionRequest struct {
	SubQuestionIndex *int    `json:"sub_question_index" binding:"required"`
	Solution         *uint64 `json:"solution" binding:"required"`
}

func malformed(ctx *gin.Context, err error) {
	util.ContractError(ctx, util.Errorf(util.ErrMalformed, "%v", err))
}

// @Summary 执行消息
// @Description 提交 add_quest 或 submit_solution 执行消息，调用方取自 JWT
// @Tags 账本
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param message body model.ExecuteMsg true "执行消息"
// @Success 200 {object} util.Response{data=model.ExecuteResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /execute [post]
func (c *LedgerController) Execute(ctx *gin.Context) {
	raw, err := ctx.GetRawData()
	if err != nil {
		malformed(ctx, err)
		return
	}

	result, err := c.Runtime.ExecuteRaw(ctx.Request.Context(), middleware.Sender(ctx), raw)
	if err != nil {
		util.ContractError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 查询消息
// @Description 提交 get_quest、get_user_badges 或 get_user_progress 查询消息
// @Tags 账本
// @Accept json
// @Produce json
// @Param message body model.QueryMsg true "查询消息"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /query [post]
func (c *LedgerController) Query(ctx *gin.Context) {
	raw, err := ctx.GetRawData()
	if err != nil {
		malformed(ctx, err)
		return
	}

	answer, err := c.Runtime.QueryRaw(ctx.Request.Context(), raw)
	if err != nil {
		util.ContractError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// @Summary 创建任务
// @Description 仅合约所有者可调用，生成 5 道子题
// @Tags 任务
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body AddQuestRequest true "任务"
// @Success 200 {object} util.Response{data=model.ExecuteResult}
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /quests [post]
func (c *LedgerController) AddQuest(ctx *gin.Context) {
	var req AddQuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		malformed(ctx, err)
		return
	}

	result, err := c.Runtime.Execute(ctx.Request.Context(), middleware.Sender(ctx), &model.ExecuteMsg{
		AddQuest: &model.AddQuestMsg{ID: req.ID, Operation: &req.Operation},
	})
	if err != nil {
		util.ContractError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 提交答案
// @Tags 任务
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Param request body SubmitSolutionRequest true "答案"
// @Success 200 {object} util.Response{data=model.ExecuteResult}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /quests/{id}/solutions [post]
func (c *LedgerController) SubmitSolution(ctx *gin.Context) {
	questID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		malformed(ctx, err)
		return
	}

	var req SubmitSolutionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		malformed(ctx, err)
		return
	}

	result, err := c.Runtime.Execute(ctx.Request.Context(), middleware.Sender(ctx), &model.ExecuteMsg{
		SubmitSolution: &model.SubmitSolutionMsg{
			QuestID:          &questID,
			SubQuestionIndex: req.SubQuestionIndex,
			Solution:         req.Solution,
		},
	})
	if err != nil {
		util.ContractError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 获取任务
// @Description 指定 sub_question_index 时返回单道子题，否则返回全部子题
// @Tags 任务
// @Produce json
// @Param id path int true "任务ID"
// @Param sub_question_index query int false "子题下标"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quests/{id} [get]
func (c *LedgerController) GetQuest(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		malformed(ctx, err)
		return
	}

	query := &model.GetQuestQuery{ID: &id}
	if indexStr := ctx.Query("sub_question_index"); indexStr != "" {
		index, err := strconv.Atoi(indexStr)
		if err != nil {
			malformed(ctx, err)
			return
		}
		query.SubQuestionIndex = &index
	}

	answer, err := c.Runtime.Query(ctx.Request.Context(), &model.QueryMsg{GetQuest: query})
	if err != nil {
		util.ContractError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// @Summary 获取用户徽章
// @Tags 徽章
// @Produce json
// @Param address path string true "用户地址"
// @Success 200 {object} util.Response{data=model.BadgesAnswer}
// @Router /users/{address}/badges [get]
func (c *LedgerController) GetUserBadges(ctx *gin.Context) {
	address := ctx.Param("address")
	answer, err := c.Runtime.Query(ctx.Request.Context(), &model.QueryMsg{
		GetUserBadges: &model.GetUserBadgesQuery{User: &address},
	})
	if err != nil {
		util.ContractError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// @Summary 获取用户进度
// @Tags 任务
// @Produce json
// @Param address path string true "用户地址"
// @Param questId path int true "任务ID"
// @Success 200 {object} util.Response{data=model.ProgressAnswer}
// @Router /users/{address}/progress/{questId} [get]
func (c *LedgerController) GetUserProgress(ctx *gin.Context) {
	questID, err := strconv.ParseUint(ctx.Param("questId"), 10, 64)
	if err != nil {
		malformed(ctx, err)
		return
	}

	address := ctx.Param("address")
	answer, err := c.Runtime.Query(ctx.Request.Context(), &model.QueryMsg{
		GetUserProgress: &model.GetUserProgressQuery{User: &address, QuestID: &questID},
	})
	if err != nil {
		util.ContractError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}
