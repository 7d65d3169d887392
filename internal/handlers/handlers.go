package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"papertrade/internal/models"
	"papertrade/internal/service"
	"papertrade/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sessionCookie = "pt_session"

type Handler struct {
	auth      *service.Auth
	engine    *service.Engine
	portfolio *service.PortfolioService
	quotes    service.QuoteProvider
	sessions  session.Store
	log       *logrus.Logger
}

func NewHandler(auth *service.Auth, engine *service.Engine, portfolio *service.PortfolioService, quotes service.QuoteProvider, sessions session.Store, log *logrus.Logger) *Handler {
	return &Handler{auth: auth, engine: engine, portfolio: portfolio, quotes: quotes, sessions: sessions, log: log}
}

// Router wires all routes. templateGlob points at the HTML templates
// (relative paths differ between the server binary and tests).
func (h *Handler) Router(templateGlob string) *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware())
	r.Use(gin.Recovery())
	r.SetFuncMap(templateFuncs())
	r.LoadHTMLGlob(templateGlob)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.GET("/check", h.CheckUsername)

	authed := r.Group("/")
	authed.Use(noCacheMiddleware())
	authed.Use(h.RequireAuth())
	{
		authed.GET("/", h.Index)
		authed.GET("/buy", h.BuyForm)
		authed.POST("/buy", h.Buy)
		authed.GET("/sell", h.SellForm)
		authed.POST("/sell", h.Sell)
		authed.GET("/quote", h.QuoteForm)
		authed.POST("/quote", h.Quote)
		authed.GET("/history", h.History)
	}
	return r
}

// apology renders the single user-facing error page. Every failure in
// the app funnels through here or through a redirect; nothing is
// silently swallowed.
func (h *Handler) apology(c *gin.Context, status int, message string) {
	c.HTML(status, "apology.html", gin.H{"Status": status, "Message": message})
}

// fail maps an error to the apology contract: business-rule errors
// carry their own message and a 400, anything else is logged and
// rendered as a generic 500.
func (h *Handler) fail(c *gin.Context, err error) {
	for _, known := range []error{
		models.ErrMissingField,
		models.ErrPasswordMismatch,
		models.ErrUsernameTaken,
		models.ErrInvalidCredentials,
		models.ErrUnknownSymbol,
		models.ErrInvalidQuantity,
		models.ErrInsufficientFunds,
		models.ErrInsufficientShares,
		models.ErrQuoteUnavailable,
	} {
		if errors.Is(err, known) {
			h.apology(c, http.StatusBadRequest, known.Error())
			return
		}
	}
	h.log.Errorf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	h.apology(c, http.StatusInternalServerError, "something went wrong")
}

func (h *Handler) Index(c *gin.Context) {
	view, err := h.portfolio.Portfolio(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Positions": view.Positions,
		"Cash":      view.Cash,
		"Total":     view.Total,
	})
}

type orderRequest struct {
	Symbol string `form:"symbol"`
	Shares string `form:"shares"`
}

// shares validates the raw form field. Non-numeric input is treated
// the same as a non-positive count.
func (r orderRequest) shares() (int64, error) {
	n, err := strconv.ParseInt(r.Shares, 10, 64)
	if err != nil || n < 1 {
		return 0, models.ErrInvalidQuantity
	}
	return n, nil
}

func (h *Handler) BuyForm(c *gin.Context) {
	c.HTML(http.StatusOK, "buy.html", nil)
}

func (h *Handler) Buy(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBind(&req); err != nil {
		h.apology(c, http.StatusBadRequest, models.ErrInvalidQuantity.Error())
		return
	}
	shares, err := req.shares()
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.engine.Buy(c.Request.Context(), currentUserID(c), req.Symbol, shares); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) SellForm(c *gin.Context) {
	c.HTML(http.StatusOK, "sell.html", nil)
}

func (h *Handler) Sell(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBind(&req); err != nil {
		h.apology(c, http.StatusBadRequest, models.ErrInvalidQuantity.Error())
		return
	}
	shares, err := req.shares()
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.engine.Sell(c.Request.Context(), currentUserID(c), req.Symbol, shares); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) QuoteForm(c *gin.Context) {
	c.HTML(http.StatusOK, "quote.html", nil)
}

func (h *Handler) Quote(c *gin.Context) {
	q, err := h.quotes.Lookup(c.Request.Context(), c.PostForm("symbol"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "quoted.html", gin.H{"Quote": q})
}

func (h *Handler) History(c *gin.Context) {
	entries, err := h.portfolio.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "history.html", gin.H{"Entries": entries})
}

type credentialsRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

func (h *Handler) Login(c *gin.Context) {
	// Forget any existing session before issuing a new one.
	if token, err := c.Cookie(sessionCookie); err == nil {
		_ = h.sessions.Destroy(c.Request.Context(), token)
	}

	var req credentialsRequest
	_ = c.ShouldBind(&req)
	user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		_ = h.sessions.Destroy(c.Request.Context(), token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

type registerRequest struct {
	Username     string `form:"username"`
	Password     string `form:"password"`
	Confirmation string `form:"confirmation"`
}

func (h *Handler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", nil)
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	_ = c.ShouldBind(&req)
	if _, err := h.auth.Register(c.Request.Context(), req.Username, req.Password, req.Confirmation); err != nil {
		h.fail(c, err)
		return
	}
	// Registration does not log the user in.
	c.Redirect(http.StatusSeeOther, "/login")
}

// CheckUsername returns true when the username is still available.
func (h *Handler) CheckUsername(c *gin.Context) {
	available, err := h.auth.UsernameAvailable(c.Request.Context(), c.Query("username"))
	if err != nil {
		h.log.Errorf("username check failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check failed"})
		return
	}
	c.JSON(http.StatusOK, available)
}
