package httpapi

import (
	"net/http"

	"lawbridge-platform/internal/advocates"
	"lawbridge-platform/internal/calls"
	"lawbridge-platform/internal/wallet"

	"github.com/gin-gonic/gin"
)

// ListAdvocates serves the client-facing directory: approved, on-duty
// advocates only, filterable and sortable.
func (a *API) ListAdvocates(c *gin.Context) {
	filter := advocates.DirectoryFilter{
		LawType:  c.Query("law_type"),
		City:     c.Query("city"),
		Language: c.Query("language"),
		SortBy:   c.DefaultQuery("sort_by", advocates.SortNewest),
	}
	list, err := a.Advocates.ListDirectory(c.Request.Context(), filter)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advocates": toAdvocatePublicViews(list)})
}

// GetAdvocate serves one directory entry.
func (a *API) GetAdvocate(c *gin.Context) {
	adv, err := a.Advocates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advocate": toAdvocatePublicView(adv)})
}

type initiateCallRequest struct {
	AdvocateID  string `json:"advocate_id" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
}

// InitiateCall places a masked call from the authenticated client to an
// advocate. The client supplies the number the platform should ring them on.
func (a *API) InitiateCall(c *gin.Context) {
	clientID, ok := callerID(c)
	if !ok {
		return
	}
	var req initiateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "advocate_id and client_phone are required")
		return
	}

	call, err := a.Engine.Initiate(c.Request.Context(), calls.InitiateRequest{
		ClientID:    clientID,
		AdvocateID:  req.AdvocateID,
		ClientPhone: req.ClientPhone,
	})
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"call": toCallView(call)})
}

// ClientCallHistory lists the caller's consultations, newest first.
func (a *API) ClientCallHistory(c *gin.Context) {
	clientID, ok := callerID(c)
	if !ok {
		return
	}
	list, err := a.Engine.Store().ListByClient(c.Request.Context(), clientID)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": toCallViews(list)})
}

type rateCallRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// RateCall records a 1..5 rating for one of the caller's completed calls.
func (a *API) RateCall(c *gin.Context) {
	clientID, ok := callerID(c)
	if !ok {
		return
	}
	var req rateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "rating is required")
		return
	}

	err := rateCall(c.Request.Context(), a.Engine.Store(), a.Advocates, clientID, c.Param("id"), req.Rating)
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"message": "rating recorded"})
	case errInvalidRating:
		badRequest(c, err.Error())
	case errNotRateable, errAlreadyRated:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		a.writeError(c, err)
	}
}

// GetWallet returns the caller's balance.
func (a *API) GetWallet(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	w, err := a.Wallet.Get(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": toWalletView(w)})
}

type topUpRequest struct {
	AmountPaise int64  `json:"amount_paise" binding:"required"`
	Reference   string `json:"reference"`
}

// TopUpWallet credits the caller's wallet. The payment-gateway handshake is
// out of scope; the reference field carries the upstream payment id.
func (a *API) TopUpWallet(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount_paise is required")
		return
	}

	entry, balance, err := a.Wallet.Credit(c.Request.Context(), id, req.AmountPaise, req.Reference)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transaction":   entry,
		"balance_paise": balance,
	})
}

// WalletTransactions lists the caller's ledger entries, newest first.
func (a *API) WalletTransactions(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	list, err := a.Wallet.Transactions(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if list == nil {
		list = []wallet.Transaction{}
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

type updateClientProfileRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// UpdateClientProfile sets the caller's display name and city.
func (a *API) UpdateClientProfile(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	var req updateClientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	acct, err := a.Accounts.UpdateProfile(c.Request.Context(), id, req.Name, req.City)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": acct})
}
