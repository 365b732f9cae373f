package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

type ExpenseHandler struct {
	expenses *service.ExpenseService
	finance  *FinanceHandler
	logger   *zap.Logger
}

func NewExpenseHandler(expenses *service.ExpenseService, finance *FinanceHandler, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, finance: finance, logger: logger}
}

type createExpenseRequest struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Vendor   string `json:"vendor"`
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := models.NewMoney(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.expenses.Record(c.Request.Context(), req.Title, req.Category, amount, req.Vendor)
	if err != nil {
		h.finance.fail(c, err, "failed to record expense")
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, err := h.expenses.List(c.Request.Context())
	if err != nil {
		h.finance.fail(c, err, "failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

type markPaidRequest struct {
	PaidBy string `json:"paid_by" binding:"required"`
}

func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.expenses.MarkPaid(c.Request.Context(), c.Param("id"), req.PaidBy)
	if err != nil {
		h.finance.fail(c, err, "failed to mark expense paid")
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.finance.fail(c, err, "failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}
