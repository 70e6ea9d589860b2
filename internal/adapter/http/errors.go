package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/pricing"
)

// statusOf maps a use case error to its HTTP status and public message.
func statusOf(err error) (int, ErrorResponse) {
	var ve *loan.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: ve.Field, Message: ve.Message}},
		}
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidType),
		errors.Is(err, ledger.ErrInsufficientFunds), errors.Is(err, loan.ErrOverpayment):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()}
	case errors.Is(err, loan.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: loan.ErrNotFound.Error()}
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: ledger.ErrNotFound.Error()}
	case errors.Is(err, loan.ErrNotParticipant):
		return http.StatusForbidden, ErrorResponse{Error: loan.ErrNotParticipant.Error()}
	case errors.Is(err, loan.ErrUnavailable):
		return http.StatusConflict, ErrorResponse{Error: loan.ErrUnavailable.Error()}
	case errors.Is(err, loan.ErrSelfMatch):
		return http.StatusConflict, ErrorResponse{Error: loan.ErrSelfMatch.Error()}
	case errors.Is(err, loan.ErrInvalidTransition):
		return http.StatusConflict, ErrorResponse{Error: loan.ErrInvalidTransition.Error()}
	case errors.Is(err, pricing.ErrRateUnavailable):
		return http.StatusServiceUnavailable, ErrorResponse{Error: pricing.ErrRateUnavailable.Error()}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal error"}
}

// writeError renders err; unexpected errors are logged and never leaked.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	code, body := statusOf(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.String("user_id", caller(c)),
			zap.Error(err),
		)
	}
	return c.JSON(code, body)
}
