package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"lawbridge-platform/internal/accounts"
	"lawbridge-platform/internal/advocates"
	"lawbridge-platform/internal/auth"
	"lawbridge-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

type sendOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

// SendOTP issues a login code. Clients may be brand new; advocates and admins
// must already exist for their role, so a stranger cannot probe those flows.
func (a *API) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and role are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !rbac.IsValidRole(req.Role) {
		badRequest(c, "unknown role")
		return
	}

	ctx := c.Request.Context()
	switch req.Role {
	case rbac.RoleAdvocate:
		if _, err := a.Advocates.GetByEmail(ctx, email); err != nil {
			a.writeError(c, err)
			return
		}
	case rbac.RoleAdmin:
		if _, err := a.Accounts.GetByEmailRole(ctx, email, rbac.RoleAdmin); err != nil {
			a.writeError(c, err)
			return
		}
	}

	expiresIn, err := a.OTP.Issue(ctx, req.Role, email)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "otp sent", "expires_in": expiresIn})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// VerifyOTP checks the code and establishes a session. First-time clients are
// provisioned with an account and a zero-balance wallet on the spot.
func (a *API) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email, role and code are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !rbac.IsValidRole(req.Role) {
		badRequest(c, "unknown role")
		return
	}

	ctx := c.Request.Context()
	if err := a.OTP.Verify(ctx, req.Role, email, strings.TrimSpace(req.Code)); err != nil {
		a.writeError(c, err)
		return
	}

	accountID, err := a.establishSession(ctx, req.Role, email)
	if err != nil {
		a.writeError(c, err)
		return
	}

	pair, err := a.Auth.IssuePair(a.clock(), accountID, req.Role)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"account_id":    accountID,
		"role":          req.Role,
	})
}

func (a *API) establishSession(ctx context.Context, role, email string) (string, error) {
	switch role {
	case rbac.RoleClient:
		acct, created, err := a.Accounts.FindOrCreateClient(ctx, email)
		if err != nil {
			return "", err
		}
		if created {
			if err := a.Wallet.CreateWallet(ctx, acct.ID); err != nil {
				return "", err
			}
		}
		if err := a.Accounts.TouchLogin(ctx, acct.ID); err != nil {
			return "", err
		}
		return acct.ID, nil

	case rbac.RoleAdvocate:
		adv, err := a.Advocates.GetByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		if err := a.Advocates.TouchLogin(ctx, adv.ID); err != nil {
			return "", err
		}
		return adv.ID, nil

	case rbac.RoleAdmin:
		acct, err := a.Accounts.GetByEmailRole(ctx, email, rbac.RoleAdmin)
		if err != nil {
			return "", err
		}
		if err := a.Accounts.TouchLogin(ctx, acct.ID); err != nil {
			return "", err
		}
		return acct.ID, nil
	}
	return "", accounts.ErrInvalidInput
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a refresh token for a new pair. The role is re-resolved
// from storage rather than trusted from the old session.
func (a *API) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token is required")
		return
	}

	claims, err := a.Auth.Verify(req.RefreshToken, auth.TokenTypeRefresh, a.clock())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	role, err := a.resolveRole(c.Request.Context(), claims.AccountID)
	if err != nil {
		a.writeError(c, err)
		return
	}
	pair, err := a.Auth.IssuePair(a.clock(), claims.AccountID, role)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"account_id":    claims.AccountID,
		"role":          role,
	})
}

func (a *API) resolveRole(ctx context.Context, accountID string) (string, error) {
	if acct, err := a.Accounts.Get(ctx, accountID); err == nil {
		return acct.Role, nil
	} else if !errors.Is(err, accounts.ErrNotFound) {
		return "", err
	}
	if _, err := a.Advocates.Get(ctx, accountID); err == nil {
		return rbac.RoleAdvocate, nil
	} else if !errors.Is(err, advocates.ErrNotFound) {
		return "", err
	}
	return "", accounts.ErrNotFound
}

// Me describes the authenticated identity.
func (a *API) Me(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	role, err := auth.Role(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ctx := c.Request.Context()
	if role == rbac.RoleAdvocate {
		adv, err := a.Advocates.Get(ctx, id)
		if err != nil {
			a.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": role, "advocate": toAdvocateOwnView(adv)})
		return
	}

	acct, err := a.Accounts.Get(ctx, id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role, "account": acct})
}
