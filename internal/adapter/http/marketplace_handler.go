package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"p2p-lending-backend/internal/usecase/marketplace"
)

type MarketplaceHandler struct {
	uc  *marketplace.Usecase
	log *zap.Logger
}

func NewMarketplaceHandler(uc *marketplace.Usecase, log *zap.Logger) *MarketplaceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MarketplaceHandler{uc: uc, log: log}
}

// Accept matches the caller with an open loan and disburses it.
func (h *MarketplaceHandler) Accept(c echo.Context) error {
	res, err := h.uc.Accept(c.Request().Context(), c.Param("id"), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

type amountReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,btc8"`
}

// Repay records a borrower repayment.
func (h *MarketplaceHandler) Repay(c echo.Context) error {
	var req amountReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.Repay(c.Request().Context(), c.Param("id"), caller(c), req.Amount)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
