package router

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/birthdates/Crypto-Store/coinpayments"
	"github.com/birthdates/Crypto-Store/conversion"
	"github.com/birthdates/Crypto-Store/ratelimit"
	"github.com/birthdates/Crypto-Store/store"
	"github.com/birthdates/Crypto-Store/transaction"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	CreatePath     = "/api/createTransaction"
	StatusPath     = "/api/transactionStatus"
	CancelPath     = "/api/cancelTransaction"
	ConversionPath = "/api/conversion"
	ImagePath      = "/api/transactionImage"
	WebhookPath    = "/api/validateStatus"
	CurrenciesPath = "/api/currencies"
)

// Manages the entire setup of the storefront API
type Router struct {
	// Transactions controller
	Transactions *transaction.Controller
	// Converter for the conversion endpoint
	Converter *conversion.Converter
	// Store holding the rate-limit counters
	Store store.Store
	// Limits per endpoint. Zero entries fall back to defaults.
	Limits Limits
	// Currencies offered in the storefront dropdown
	Currencies []string
	// Base Gin Group to use for routing
	Base gin.IRoutes
}

func (r *Router) limiter(id string, limit Limit) (l ratelimit.Limiter) {
	return ratelimit.New(ratelimit.Config{
		Store:  r.Store,
		ID:     id,
		Window: limit.Window,
		Max:    limit.Max,
	})
}

// rateLimit gates an endpoint on its fixed-window counter. Store
// failures deny the request.
func rateLimit(l ratelimit.Limiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		allowed, err := l.Allow(ctx, ctx.ClientIP())
		if err != nil {
			log.Println("ERROR|RATELIMIT", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			return
		}
		if !allowed {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests"})
			return
		}
		ctx.Next()
	}
}

// session returns the caller's bearer token. A request without one
// gets a fresh cookie and is treated as unauthenticated for this
// call; the caller retries with the now-set cookie.
func (r *Router) session(ctx *gin.Context) (session string, ok bool) {
	session, err := ctx.Cookie(SessionCookie)
	if err == nil && session != "" {
		return session, true
	}
	mintSession(ctx)
	return "", false
}

func (r *Router) createTransaction(ctx *gin.Context) {
	var req CreateTransactionRequest
	err := ctx.BindJSON(&req)
	if err != nil {
		return // BindJSON already aborted with 400
	}
	if !req.Amount.IsPositive() || req.Currency == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing fields"})
		return
	}

	session, ok := r.session(ctx)
	if !ok {
		ctx.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	record, err := r.Transactions.Create(ctx, session, transaction.CreateRequest{
		Amount:   req.Amount,
		Email:    req.Email,
		Currency: req.Currency,
	})
	if err != nil {
		ctx.JSON(errorStatus(err), ErrorResponse{Error: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, CreateTransactionResponse{Success: true, Record: record})
}

func (r *Router) transactionStatus(ctx *gin.Context) {
	session, ok := r.session(ctx)
	if !ok {
		ctx.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	merged, err := r.Transactions.FetchStatus(ctx, session)
	if err != nil {
		ctx.JSON(errorStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, merged)
}

func (r *Router) cancelTransaction(ctx *gin.Context) {
	session, ok := r.session(ctx)
	if !ok {
		ctx.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	cancelled, err := r.Transactions.Cancel(ctx, session)
	if err != nil {
		ctx.JSON(errorStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, CancelTransactionResponse{Success: cancelled})
}

func (r *Router) conversion(ctx *gin.Context) {
	currency := ctx.Query("currency")
	if currency == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing fields"})
		return
	}

	converted, err := r.Converter.Convert(ctx, decimal.NewFromInt(1), currency, "USD")
	if err != nil {
		ctx.JSON(errorStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, ConversionResponse{Conversion: converted})
}

func (r *Router) transactionImage(ctx *gin.Context) {
	session, ok := r.session(ctx)
	if !ok {
		ctx.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	image, err := r.Transactions.Image(ctx, session)
	if err != nil {
		ctx.JSON(errorStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	ctx.Data(http.StatusOK, "image/png", image)
}

// validateStatus ingests gateway webhooks. Bad signatures get a 400;
// anything after verification answers 200 so the gateway doesn't
// hammer us with redeliveries over a transient internal failure.
func (r *Router) validateStatus(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{})
		return
	}

	err = r.Transactions.HandleIPN(ctx, body, ctx.GetHeader("HMAC"))
	switch {
	case errors.Is(err, coinpayments.ErrInvalidSignature):
		log.Println("WARN|IPN|SIGNATURE", ctx.ClientIP())
		ctx.JSON(http.StatusBadRequest, gin.H{})
	case err != nil:
		log.Println("ERROR|IPN", err)
		ctx.JSON(http.StatusOK, gin.H{})
	default:
		ctx.JSON(http.StatusOK, gin.H{})
	}
}

func (r *Router) currencies(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, CurrenciesResponse{Currencies: r.Currencies})
}

// errorStatus maps controller errors onto response codes. Expected
// conditions are client errors; everything else is internal.
func errorStatus(err error) (status int) {
	var apiErr *coinpayments.APIError
	switch {
	case errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, transaction.ErrCorruptRecord),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, conversion.ErrUnsupportedCurrency),
		errors.As(err, &apiErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Register routes in the Gin engine
func (r *Router) Register() {
	limits := r.Limits.WithDefaults()

	r.Base.POST(CreatePath, rateLimit(r.limiter("create-transaction", limits.Create)), r.createTransaction)
	r.Base.GET(StatusPath, rateLimit(r.limiter("transaction-status", limits.Status)), r.transactionStatus)
	r.Base.DELETE(CancelPath, rateLimit(r.limiter("cancel-transaction", limits.Cancel)), r.cancelTransaction)
	r.Base.GET(ConversionPath, rateLimit(r.limiter("conversion", limits.Conversion)), r.conversion)
	r.Base.GET(ImagePath, rateLimit(r.limiter("transaction-image", limits.Image)), r.transactionImage)
	r.Base.POST(WebhookPath, rateLimit(r.limiter("validate-status", limits.Webhook)), r.validateStatus)
	r.Base.GET(CurrenciesPath, r.currencies)
}
