package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health      *Handler
	Loans       *LoanHandler
	Marketplace *MarketplaceHandler
	Ledger      *LedgerHandler
}

// Register mounts /health on e and the API on api. Identity and idempotency
// middleware belong on api, not here.
func (h Handlers) Register(e *echo.Echo, api *echo.Group) {
	e.GET("/health", h.Health.Health)

	loans := api.Group("/loans")
	loans.POST("/request", h.Loans.CreateRequest)
	loans.POST("/offer", h.Loans.CreateOffer)
	loans.GET("/marketplace", h.Loans.Marketplace)
	loans.GET("/active", h.Loans.Active)
	loans.GET("/:id", h.Loans.Get)
	loans.POST("/:id/accept", h.Marketplace.Accept)
	loans.POST("/:id/repay", h.Marketplace.Repay)
	loans.POST("/:id/default", h.Loans.MarkDefaulted)
	loans.GET("/:id/transactions", h.Ledger.LoanTransactions)

	api.GET("/transactions", h.Ledger.Transactions)
	api.GET("/transactions/summary", h.Ledger.Summary)
	api.GET("/transactions/:id", h.Ledger.Transaction)

	api.POST("/wallet/deposit", h.Ledger.Deposit)
	api.POST("/wallet/withdraw", h.Ledger.Withdraw)
	api.GET("/wallet/balance", h.Ledger.Balance)

	api.GET("/user/stats", h.Ledger.Stats)
}
