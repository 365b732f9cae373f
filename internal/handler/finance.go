package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

// FinanceHandler exposes the ledger core to the fee-collection,
// payroll and admin collaborators.
type FinanceHandler struct {
	ledger      *service.LedgerService
	distributor *service.DistributionService
	wallet      *service.WalletService
	payouts     *service.PayoutService
	closings    *service.ClosingService
	payroll     *service.PayrollService
	recon       *service.ReconciliationService
	stats       *service.StatsService
	logger      *zap.Logger
}

func NewFinanceHandler(
	ledger *service.LedgerService,
	distributor *service.DistributionService,
	wallet *service.WalletService,
	payouts *service.PayoutService,
	closings *service.ClosingService,
	payroll *service.PayrollService,
	recon *service.ReconciliationService,
	stats *service.StatsService,
	logger *zap.Logger,
) *FinanceHandler {
	return &FinanceHandler{
		ledger:      ledger,
		distributor: distributor,
		wallet:      wallet,
		payouts:     payouts,
		closings:    closings,
		payroll:     payroll,
		recon:       recon,
		stats:       stats,
		logger:      logger,
	}
}

type distributeRequest struct {
	StudentID  string `json:"student_id" binding:"required"`
	PaidAmount int64  `json:"paid_amount" binding:"required,gt=0"`
}

func (h *FinanceHandler) DistributeFee(c *gin.Context) {
	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := models.NewMoney(req.PaidAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	split, err := h.distributor.Distribute(c.Request.Context(), c.Param("id"), req.StudentID, amount)
	if err != nil {
		h.fail(c, err, "distribution failed")
		return
	}
	c.JSON(http.StatusCreated, split)
}

type payoutRequest struct {
	AccountID   string `json:"account_id" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Type        string `json:"type" binding:"omitempty,oneof=share advance salary"`
	Description string `json:"description"`
}

func (h *FinanceHandler) CreatePayout(c *gin.Context) {
	var req payoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := models.NewMoney(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payoutType := service.PayoutType(req.Type)
	if req.Type == "" {
		payoutType = service.PayoutShare
	}

	voucher, err := h.payouts.Payout(c.Request.Context(), req.AccountID, amount, payoutType, req.Description)
	if err != nil {
		h.fail(c, err, "payout failed")
		return
	}
	c.JSON(http.StatusCreated, voucher)
}

type closeDayRequest struct {
	ClosedBy string `json:"closed_by" binding:"required"`
	Notes    string `json:"notes"`
}

func (h *FinanceHandler) CloseDay(c *gin.Context) {
	var req closeDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	closing, err := h.closings.CloseDay(c.Request.Context(), req.ClosedBy, req.Notes)
	if err != nil {
		h.fail(c, err, "day closing failed")
		return
	}
	c.JSON(http.StatusCreated, closing)
}

type accrueRequest struct {
	TeacherID string `json:"teacher_id" binding:"required"`
	Period    string `json:"period" binding:"required"`
}

func (h *FinanceHandler) AccrueSalary(c *gin.Context) {
	var req accrueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.payroll.AccrueSalary(c.Request.Context(), req.TeacherID, req.Period)
	if err != nil {
		h.fail(c, err, "salary accrual failed")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *FinanceHandler) GetBalance(c *gin.Context) {
	acct, err := h.wallet.Balance(c.Request.Context(), c.Param("account"))
	if err != nil {
		h.fail(c, err, "failed to get balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account_id": acct.ID,
		"balance":    acct.Balance,
		"total":      acct.Balance.Total(),
		"total_paid": acct.TotalPaid,
	})
}

func (h *FinanceHandler) ListVouchers(c *gin.Context) {
	vouchers, err := h.payouts.Vouchers(c.Request.Context(), c.Param("account"))
	if err != nil {
		h.fail(c, err, "failed to list vouchers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": vouchers})
}

func (h *FinanceHandler) ListClosings(c *gin.Context) {
	closings, err := h.closings.Closings(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to list closings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"closings": closings})
}

func (h *FinanceHandler) GetSummary(c *gin.Context) {
	from, err := parseDate(c.DefaultQuery("from", "0001-01-01"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := parseDate(c.DefaultQuery("to", time.Now().Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	summary, err := h.stats.Summary(c.Request.Context(), from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		h.fail(c, err, "failed to compute summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *FinanceHandler) ListLiabilities(c *gin.Context) {
	liabilities, err := h.stats.Liabilities(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to list liabilities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liabilities": liabilities})
}

// ListFloating returns a collector's unclosed drawer transactions.
func (h *FinanceHandler) ListFloating(c *gin.Context) {
	collectedBy := c.Query("collected_by")
	if collectedBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collected_by is required"})
		return
	}
	txns, err := h.ledger.FindFloating(c.Request.Context(), collectedBy)
	if err != nil {
		h.fail(c, err, "failed to list floating transactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

type voidRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VoidTransaction writes a compensating reversal for a verified entry.
func (h *FinanceHandler) VoidTransaction(c *gin.Context) {
	var req voidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reversal, err := h.ledger.Void(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, err, "void failed")
		return
	}
	c.JSON(http.StatusCreated, reversal)
}

func (h *FinanceHandler) RepairDistributions(c *gin.Context) {
	report, err := h.recon.RepairDistributions(c.Request.Context())
	if err != nil {
		h.fail(c, err, "repair run failed")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *FinanceHandler) VerifyLedger(c *gin.Context) {
	report, err := h.recon.VerifyLedger(c.Request.Context())
	if err != nil {
		h.fail(c, err, "verification run failed")
		return
	}
	c.JSON(http.StatusOK, report)
}

// fail maps the service error taxonomy onto HTTP statuses.
func (h *FinanceHandler) fail(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrConfiguration),
		errors.Is(err, service.ErrNoOp):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrDuplicateDistribution):
		status = http.StatusConflict
	case errors.Is(err, service.ErrConcurrencyConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
