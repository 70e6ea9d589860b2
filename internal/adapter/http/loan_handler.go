package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/usecase/loan"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log *zap.Logger
}

func NewLoanHandler(uc *loan.Usecase, log *zap.Logger) *LoanHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoanHandler{uc: uc, log: log}
}

type createLoanReq struct {
	Amount         decimal.Decimal `json:"amount"         validate:"required,gte=0.01,lte=10,btc8"`
	Interest       decimal.Decimal `json:"interest"       validate:"required,gte=1,lte=15,dec2"`
	DurationMonths int             `json:"durationMonths" validate:"required,gte=1,lte=36"`
	HasCollateral  bool            `json:"hasCollateral"`
}

func (r createLoanReq) input(creatorID string) loan.CreateInput {
	return loan.CreateInput{
		CreatorID:      creatorID,
		Amount:         r.Amount,
		Interest:       r.Interest,
		DurationMonths: r.DurationMonths,
		HasCollateral:  r.HasCollateral,
	}
}

// CreateRequest posts a borrower's loan request.
func (h *LoanHandler) CreateRequest(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	l, err := h.uc.CreateRequest(c.Request().Context(), req.input(caller(c)))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, l)
}

// CreateOffer posts a lender's loan offer.
func (h *LoanHandler) CreateOffer(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	l, err := h.uc.CreateOffer(c.Request().Context(), req.input(caller(c)))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, l)
}

// Marketplace lists open loans, optionally by ?type= and ?hasCollateral=.
func (h *LoanHandler) Marketplace(c echo.Context) error {
	var f domain.MarketFilter
	if v := c.QueryParam("type"); v != "" {
		t := domain.Type(v)
		f.Type = &t
	}
	if v := c.QueryParam("hasCollateral"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []FieldError{{Field: "hasCollateral", Message: "must be true or false"}},
			})
		}
		f.HasCollateral = &b
	}
	loans, err := h.uc.Marketplace(c.Request().Context(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, loans)
}

// Active lists the caller's active loans.
func (h *LoanHandler) Active(c echo.Context) error {
	loans, err := h.uc.Active(c.Request().Context(), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *LoanHandler) Get(c echo.Context) error {
	v, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

// MarkDefaulted lets the lender close an active loan as defaulted.
func (h *LoanHandler) MarkDefaulted(c echo.Context) error {
	l, err := h.uc.MarkDefaulted(c.Request().Context(), c.Param("id"), caller(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, l)
}
