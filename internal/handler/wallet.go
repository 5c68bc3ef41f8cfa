package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiye/internal/domain"
	"taxiye/internal/service"
)

// WalletHandler handles HTTP requests for the rider wallet.
type WalletHandler struct {
	wallet *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallet *service.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// WalletResponse is the HTTP response for wallet state.
type WalletResponse struct {
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
}

// TransactionResponse is the HTTP response for a ledger entry.
type TransactionResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	Reference string  `json:"reference,omitempty"`
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Status:    string(tx.Status),
		Reference: tx.Reference,
	}
}

// Get handles GET /v1/users/:id/wallet
func (h *WalletHandler) Get(c *gin.Context) {
	wallet, err := h.wallet.GetWallet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, WalletResponse{UserID: wallet.UserID, Balance: wallet.Balance})
}

// TopUpRequest is the HTTP request body for a wallet top-up.
type TopUpRequest struct {
	Amount float64 `json:"amount"`
}

// TopUp handles POST /v1/users/:id/wallet/topup
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	tx, err := h.wallet.TopUp(c.Request.Context(), service.TopUpRequest{
		UserID:         c.Param("id"),
		Amount:         req.Amount,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if tx.Status == domain.TransactionStatusFailed {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, toTransactionResponse(tx))
}

// ListTransactions handles GET /v1/users/:id/wallet/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	txs, err := h.wallet.ListTransactions(c.Request.Context(), c.Param("id"), 0)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		response = append(response, toTransactionResponse(tx))
	}
	c.JSON(http.StatusOK, response)
}
