package handlers

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/fxjournal/internal/analytics"
	"github.com/user/fxjournal/internal/images"
	"github.com/user/fxjournal/internal/models"
)

const (
	defaultTradeLimit = 100
	maxTradeLimit     = 500
)

// TradeRequest defines the JSON body shared by trade create and update.
type TradeRequest struct {
	CurrencyPair string     `json:"currency_pair"`
	Direction    string     `json:"direction"`
	EntryPrice   float64    `json:"entry_price"`
	ExitPrice    *float64   `json:"exit_price"`
	LotSize      float64    `json:"lot_size"`
	EntryTime    time.Time  `json:"entry_time"`
	ExitTime     *time.Time `json:"exit_time"`
	StopLoss     *float64   `json:"stop_loss"`
	TakeProfit   *float64   `json:"take_profit"`
	Notes        *string    `json:"notes"`
	Strategy     *string    `json:"strategy"`
}

func (r *TradeRequest) validate() string {
	switch {
	case r.CurrencyPair == "":
		return "currency_pair is required"
	case r.Direction != models.DirectionLong && r.Direction != models.DirectionShort:
		return "direction must be 'long' or 'short'"
	case r.EntryPrice <= 0:
		return "entry_price must be positive"
	case r.LotSize <= 0:
		return "lot_size must be positive"
	case r.EntryTime.IsZero():
		return "entry_time is required"
	}
	return ""
}

func (r *TradeRequest) apply(t *models.Trade) {
	t.CurrencyPair = r.CurrencyPair
	t.Direction = r.Direction
	t.EntryPrice = r.EntryPrice
	t.ExitPrice = r.ExitPrice
	t.LotSize = r.LotSize
	t.EntryTime = r.EntryTime
	t.ExitTime = r.ExitTime
	t.StopLoss = r.StopLoss
	t.TakeProfit = r.TakeProfit
	t.Notes = r.Notes
	t.Strategy = r.Strategy
}

// TradeHandler serves the trade CRUD and screenshot upload.
type TradeHandler struct {
	trades TradeStore
	tagger EventTagger
	logger *zap.Logger
}

// NewTradeHandler creates a TradeHandler.
func NewTradeHandler(trades TradeStore, tagger EventTagger, logger *zap.Logger) *TradeHandler {
	return &TradeHandler{trades: trades, tagger: tagger, logger: logger}
}

// Create logs a new trade: derives P&L when the trade is already closed and
// snapshots the surrounding high-impact events.
func (h *TradeHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	req := new(TradeRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	trade := &models.Trade{UserID: userID}
	req.apply(trade)
	analytics.Derive(trade)

	tags, err := h.tagger.Tag(c.Context(), trade.EntryTime)
	if err != nil {
		h.logger.Error("Failed to tag trade with events", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to tag trade with events"})
	}
	trade.TaggedEvents = tags

	if err := h.trades.Create(c.Context(), trade); err != nil {
		h.logger.Error("Failed to create trade", zap.String("user_id", userID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create trade"})
	}

	return c.Status(fiber.StatusCreated).JSON(trade)
}

// List returns the user's trades, newest first, with optional strategy and
// currency pair filters.
func (h *TradeHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	limit := c.QueryInt("limit", defaultTradeLimit)
	if limit < 1 || limit > maxTradeLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be between 1 and 500"})
	}

	trades, err := h.trades.ListByUser(c.Context(), userID, c.Query("strategy"), c.Query("currency_pair"), limit)
	if err != nil {
		h.logger.Error("Failed to list trades", zap.String("user_id", userID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve trades"})
	}

	return c.JSON(trades)
}

// Get returns one trade owned by the user.
func (h *TradeHandler) Get(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trade ID"})
	}

	trade, err := h.trades.GetByID(c.Context(), tradeID, userID)
	if err != nil {
		h.logger.Error("Failed to get trade", zap.String("trade_id", tradeID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve trade"})
	}
	if trade == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trade not found"})
	}

	return c.JSON(trade)
}

// Update replaces a trade's fields from the request and re-derives P&L.
// The tagged event snapshot and the screenshot are left untouched.
func (h *TradeHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trade ID"})
	}

	req := new(TradeRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	trade, err := h.trades.GetByID(c.Context(), tradeID, userID)
	if err != nil {
		h.logger.Error("Failed to get trade", zap.String("trade_id", tradeID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve trade"})
	}
	if trade == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trade not found"})
	}

	req.apply(trade)
	analytics.Derive(trade)

	if err := h.trades.Update(c.Context(), trade); err != nil {
		h.logger.Error("Failed to update trade", zap.String("trade_id", tradeID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update trade"})
	}

	return c.JSON(trade)
}

// Delete removes a trade.
func (h *TradeHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trade ID"})
	}

	deleted, err := h.trades.Delete(c.Context(), tradeID, userID)
	if err != nil {
		h.logger.Error("Failed to delete trade", zap.String("trade_id", tradeID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete trade"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trade not found"})
	}

	return c.JSON(fiber.Map{"message": "Trade deleted successfully"})
}

// UploadScreenshot attaches a normalized screenshot to a trade.
func (h *TradeHandler) UploadScreenshot(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trade ID"})
	}

	trade, err := h.trades.GetByID(c.Context(), tradeID, userID)
	if err != nil {
		h.logger.Error("Failed to get trade", zap.String("trade_id", tradeID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve trade"})
	}
	if trade == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trade not found"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file upload"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read uploaded file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read uploaded file"})
	}

	screenshotURL, err := images.EncodeScreenshot(data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Uploaded file is not a valid image"})
	}

	if err := h.trades.SetScreenshot(c.Context(), tradeID, userID, screenshotURL); err != nil {
		h.logger.Error("Failed to store screenshot", zap.String("trade_id", tradeID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store screenshot"})
	}

	return c.JSON(fiber.Map{
		"message":        "Screenshot uploaded successfully",
		"screenshot_url": screenshotURL,
	})
}
