package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"p2p-lending-backend/internal/usecase/ledger"
	"p2p-lending-backend/internal/usecase/stats"
)

// LedgerHandler serves the transaction history, wallet and user stats.
type LedgerHandler struct {
	uc    *ledger.Usecase
	stats *stats.Usecase
	log   *zap.Logger
}

func NewLedgerHandler(uc *ledger.Usecase, st *stats.Usecase, log *zap.Logger) *LedgerHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerHandler{uc: uc, stats: st, log: log}
}

func (h *LedgerHandler) Transactions(c echo.Context) error {
	out, err := h.uc.ListByUser(c.Request().Context(), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Transaction shows one entry to its owner or counterparty.
func (h *LedgerHandler) Transaction(c echo.Context) error {
	v, err := h.uc.Get(c.Request().Context(), c.Param("id"), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *LedgerHandler) Summary(c echo.Context) error {
	out, err := h.uc.MonthlySummary(c.Request().Context(), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// LoanTransactions lists a loan's entries to one of its participants.
func (h *LedgerHandler) LoanTransactions(c echo.Context) error {
	out, err := h.uc.ListByLoan(c.Request().Context(), c.Param("id"), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LedgerHandler) Deposit(c echo.Context) error {
	var req amountReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	t, err := h.uc.Deposit(c.Request().Context(), caller(c), req.Amount)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *LedgerHandler) Withdraw(c echo.Context) error {
	var req amountReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	t, err := h.uc.Withdraw(c.Request().Context(), caller(c), req.Amount)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *LedgerHandler) Balance(c echo.Context) error {
	b, err := h.uc.Balance(c.Request().Context(), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *LedgerHandler) Stats(c echo.Context) error {
	s, err := h.stats.ForUser(c.Request().Context(), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, s)
}
