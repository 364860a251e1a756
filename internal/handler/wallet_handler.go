package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/fes/internal/event"
	"github.com/blues/fes/internal/logic"
	"github.com/blues/fes/internal/model"
	"github.com/gin-gonic/gin"
)

// WalletHandler 钱包处理器
type WalletHandler struct {
	walletLogic *logic.WalletLogic
	recorder    *event.Recorder
}

// NewWalletHandler 创建钱包处理器
func NewWalletHandler(walletLogic *logic.WalletLogic, recorder *event.Recorder) *WalletHandler {
	return &WalletHandler{
		walletLogic: walletLogic,
		recorder:    recorder,
	}
}

// GetWallet 获取用户钱包，首次访问时自动创建
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := parseUserID(c, "user_id")
	if !ok {
		return
	}

	wallet, err := h.walletLogic.GetWallet(userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取钱包成功", wallet)
}

// GetTransactions 分页获取用户账务流水
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, ok := parseUserID(c, "user_id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	transactions, total, err := h.walletLogic.GetTransactions(userID, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取流水成功", gin.H{
		"transactions": transactions,
		"pagination":   NewPagination(page, pageSize, total),
	})
}

// RequestWithdrawal 申请提现
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	transaction, message, err := h.walletLogic.RequestWithdrawal(req.UserID, req.Amount, req.Method)
	if err != nil {
		HandleError(c, err)
		return
	}

	if h.recorder != nil {
		h.recorder.Record(req.UserID, 0, model.PaymentEventWithdrawRequested,
			transaction.Reference, gin.H{
				"amount": req.Amount,
				"method": req.Method,
			})
	}

	SuccessResponse(c, http.StatusOK, "提现申请成功", gin.H{
		"transaction": transaction,
		"message":     message,
	})
}
