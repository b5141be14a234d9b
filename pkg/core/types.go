package core

import (
	"time"

	"github.com/cockroachdb/apd/v3"
)

// OrderSide represents the direction of an order.
type OrderSide string

// Order side constants.
const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// OrderType represents how an order is executed.
type OrderType string

// Order type constants.
const (
	TypeMarket       OrderType = "market"
	TypeLimit        OrderType = "limit"
	TypeStop         OrderType = "stop"
	TypeStopLimit    OrderType = "stop_limit"
	TypeTrailingStop OrderType = "trailing_stop"
)

// OrderClass distinguishes simple orders from bracket and one-cancels-other groups.
type OrderClass string

// Order class constants.
const (
	ClassSimple  OrderClass = "simple"
	ClassBracket OrderClass = "bracket"
	ClassOCO     OrderClass = "oco"
	ClassOTO     OrderClass = "oto"
)

// TimeInForce defines how long an order remains active.
type TimeInForce string

// Time in force constants.
const (
	Day TimeInForce = "day"
	GTC TimeInForce = "gtc"
	OPG TimeInForce = "opg"
	CLS TimeInForce = "cls"
	IOC TimeInForce = "ioc"
	FOK TimeInForce = "fok"
)

// OrderStatus represents the current state of an order.
type OrderStatus string

// Order status constants.
const (
	StatusNew             OrderStatus = "new"
	StatusAccepted        OrderStatus = "accepted"
	StatusPendingNew      OrderStatus = "pending_new"
	StatusPartiallyFilled OrderStatus = "partially_filled"
	StatusFilled          OrderStatus = "filled"
	StatusDoneForDay      OrderStatus = "done_for_day"
	StatusPendingCancel   OrderStatus = "pending_cancel"
	StatusCanceled        OrderStatus = "canceled"
	StatusExpired         OrderStatus = "expired"
	StatusReplaced        OrderStatus = "replaced"
	StatusRejected        OrderStatus = "rejected"
	StatusSuspended       OrderStatus = "suspended"
)

// IsTerminal returns true if the order is in a terminal state (no further changes possible).
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusCanceled, StatusExpired, StatusReplaced, StatusRejected:
		return true
	}
	return false
}

// AssetClass groups tradable instruments.
type AssetClass string

// Asset class constants.
const (
	AssetClassUSEquity AssetClass = "us_equity"
	AssetClassUSOption AssetClass = "us_option"
	AssetClassCrypto   AssetClass = "crypto"
)

// Account is the trading account of the authenticated user.
// Monetary fields are decimal strings on the wire.
type Account struct {
	ID                   string      `json:"id"`
	AccountNumber        string      `json:"account_number"`
	Status               string      `json:"status"`
	Currency             string      `json:"currency"`
	Cash                 apd.Decimal `json:"cash"`
	PortfolioValue       apd.Decimal `json:"portfolio_value"`
	BuyingPower          apd.Decimal `json:"buying_power"`
	Equity               apd.Decimal `json:"equity"`
	LastEquity           apd.Decimal `json:"last_equity"`
	LongMarketValue      apd.Decimal `json:"long_market_value"`
	ShortMarketValue     apd.Decimal `json:"short_market_value"`
	InitialMargin        apd.Decimal `json:"initial_margin"`
	MaintenanceMargin    apd.Decimal `json:"maintenance_margin"`
	DaytradeCount        int         `json:"daytrade_count"`
	PatternDayTrader     bool        `json:"pattern_day_trader"`
	TradingBlocked       bool        `json:"trading_blocked"`
	TransfersBlocked     bool        `json:"transfers_blocked"`
	AccountBlocked       bool        `json:"account_blocked"`
	ShortingEnabled      bool        `json:"shorting_enabled"`
	CryptoStatus         string      `json:"crypto_status,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	TradeSuspendedByUser bool        `json:"trade_suspended_by_user"`
}

// AccountConfigurations are the user-adjustable account settings.
type AccountConfigurations struct {
	DTBPCheck           string `json:"dtbp_check,omitempty"`
	TradeConfirmEmail   string `json:"trade_confirm_email,omitempty"`
	SuspendTrade        *bool  `json:"suspend_trade,omitempty"`
	NoShorting          *bool  `json:"no_shorting,omitempty"`
	FractionalTrading   *bool  `json:"fractional_trading,omitempty"`
	MaxMarginMultiplier string `json:"max_margin_multiplier,omitempty"`
	PDTCheck            string `json:"pdt_check,omitempty"`
	PTPNoExceptionEntry *bool  `json:"ptp_no_exception_entry,omitempty"`
}

// PortfolioHistory is a time series of account equity.
type PortfolioHistory struct {
	Timestamp     []int64   `json:"timestamp"`
	Equity        []float64 `json:"equity"`
	ProfitLoss    []float64 `json:"profit_loss"`
	ProfitLossPct []float64 `json:"profit_loss_pct"`
	BaseValue     float64   `json:"base_value"`
	Timeframe     string    `json:"timeframe"`
}

// Order represents a brokerage order from submission through completion.
type Order struct {
	// ID is the server-assigned order identifier.
	ID string `json:"id"`
	// ClientOrderID is the client-assigned order identifier.
	ClientOrderID string `json:"client_order_id"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt time.Time  `json:"submitted_at"`
	FilledAt    *time.Time `json:"filled_at"`
	ExpiredAt   *time.Time `json:"expired_at"`
	CanceledAt  *time.Time `json:"canceled_at"`
	FailedAt    *time.Time `json:"failed_at"`
	ReplacedAt  *time.Time `json:"replaced_at"`
	ReplacedBy  *string    `json:"replaced_by"`
	Replaces    *string    `json:"replaces"`

	AssetID    string     `json:"asset_id"`
	Symbol     string     `json:"symbol"`
	AssetClass AssetClass `json:"asset_class"`

	Notional       *apd.Decimal `json:"notional"`
	Qty            *apd.Decimal `json:"qty"`
	FilledQty      apd.Decimal  `json:"filled_qty"`
	FilledAvgPrice *apd.Decimal `json:"filled_avg_price"`
	LimitPrice     *apd.Decimal `json:"limit_price"`
	StopPrice      *apd.Decimal `json:"stop_price"`
	TrailPrice     *apd.Decimal `json:"trail_price"`
	TrailPercent   *apd.Decimal `json:"trail_percent"`

	OrderClass     OrderClass  `json:"order_class"`
	Type           OrderType   `json:"type"`
	Side           OrderSide   `json:"side"`
	TimeInForce    TimeInForce `json:"time_in_force"`
	Status         OrderStatus `json:"status"`
	ExtendedHours  bool        `json:"extended_hours"`
	PositionIntent string      `json:"position_intent,omitempty"`

	// Legs holds the child orders of bracket, OCO and OTO orders.
	Legs []Order `json:"legs,omitempty"`
}

// Position is an open position in one asset.
type Position struct {
	AssetID                string      `json:"asset_id"`
	Symbol                 string      `json:"symbol"`
	Exchange               string      `json:"exchange"`
	AssetClass             AssetClass  `json:"asset_class"`
	AvgEntryPrice          apd.Decimal `json:"avg_entry_price"`
	Qty                    apd.Decimal `json:"qty"`
	QtyAvailable           apd.Decimal `json:"qty_available"`
	Side                   string      `json:"side"`
	MarketValue            apd.Decimal `json:"market_value"`
	CostBasis              apd.Decimal `json:"cost_basis"`
	UnrealizedPL           apd.Decimal `json:"unrealized_pl"`
	UnrealizedPLPC         apd.Decimal `json:"unrealized_plpc"`
	UnrealizedIntradayPL   apd.Decimal `json:"unrealized_intraday_pl"`
	UnrealizedIntradayPLPC apd.Decimal `json:"unrealized_intraday_plpc"`
	CurrentPrice           apd.Decimal `json:"current_price"`
	LastdayPrice           apd.Decimal `json:"lastday_price"`
	ChangeToday            apd.Decimal `json:"change_today"`
}

// ClosePositionResult is one entry of the close-all-positions response.
type ClosePositionResult struct {
	Symbol string `json:"symbol"`
	Status int    `json:"status"`
	Body   *Order `json:"body,omitempty"`
}

// CancelOrderResult is one entry of the cancel-all-orders response.
type CancelOrderResult struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Body   *Order `json:"body,omitempty"`
}

// Asset is a tradable instrument.
type Asset struct {
	ID           string     `json:"id"`
	Class        AssetClass `json:"class"`
	Exchange     string     `json:"exchange"`
	Symbol       string     `json:"symbol"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	Tradable     bool       `json:"tradable"`
	Marginable   bool       `json:"marginable"`
	Shortable    bool       `json:"shortable"`
	EasyToBorrow bool       `json:"easy_to_borrow"`
	Fractionable bool       `json:"fractionable"`
	Attributes   []string   `json:"attributes,omitempty"`
}

// Clock reports whether the market is open and the next session boundaries.
type Clock struct {
	Timestamp time.Time `json:"timestamp"`
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// CalendarDay is one trading day. Date is YYYY-MM-DD, Open and Close are HH:MM
// in exchange local time.
type CalendarDay struct {
	Date         string `json:"date"`
	Open         string `json:"open"`
	Close        string `json:"close"`
	SessionOpen  string `json:"session_open,omitempty"`
	SessionClose string `json:"session_close,omitempty"`
}

// Watchlist is a named list of assets.
type Watchlist struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Assets    []Asset   `json:"assets,omitempty"`
}

// Activity is an account activity entry: a fill or a non-trade event such as a dividend.
type Activity struct {
	ID              string       `json:"id"`
	ActivityType    string       `json:"activity_type"`
	TransactionTime *time.Time   `json:"transaction_time,omitempty"`
	Type            string       `json:"type,omitempty"`
	Price           *apd.Decimal `json:"price,omitempty"`
	Qty             *apd.Decimal `json:"qty,omitempty"`
	Side            OrderSide    `json:"side,omitempty"`
	Symbol          string       `json:"symbol,omitempty"`
	LeavesQty       *apd.Decimal `json:"leaves_qty,omitempty"`
	OrderID         string       `json:"order_id,omitempty"`
	CumQty          *apd.Decimal `json:"cum_qty,omitempty"`
	Date            string       `json:"date,omitempty"`
	NetAmount       *apd.Decimal `json:"net_amount,omitempty"`
	Description     string       `json:"description,omitempty"`
	Status          string       `json:"status,omitempty"`
}

// Bar is an OHLCV aggregate. Market data prices are JSON numbers.
type Bar struct {
	// Symbol is filled in by the client from the response key; the API does not
	// repeat it per bar.
	Symbol     string    `json:"S,omitempty"`
	Timestamp  time.Time `json:"t"`
	Open       float64   `json:"o"`
	High       float64   `json:"h"`
	Low        float64   `json:"l"`
	Close      float64   `json:"c"`
	Volume     float64   `json:"v"`
	TradeCount int64     `json:"n"`
	VWAP       float64   `json:"vw"`
}

// Quote is a top-of-book quote.
type Quote struct {
	Timestamp   time.Time `json:"t"`
	BidExchange string    `json:"bx"`
	BidPrice    float64   `json:"bp"`
	BidSize     float64   `json:"bs"`
	AskExchange string    `json:"ax"`
	AskPrice    float64   `json:"ap"`
	AskSize     float64   `json:"as"`
	Conditions  []string  `json:"c,omitempty"`
	Tape        string    `json:"z,omitempty"`
}

// Trade is a single print.
type Trade struct {
	Timestamp  time.Time `json:"t"`
	Exchange   string    `json:"x"`
	Price      float64   `json:"p"`
	Size       float64   `json:"s"`
	ID         int64     `json:"i"`
	Conditions []string  `json:"c,omitempty"`
	Tape       string    `json:"z,omitempty"`
	// TakerSide is B or S for crypto trades.
	TakerSide string `json:"tks,omitempty"`
}

// Snapshot bundles the latest trade, quote and bars of one symbol.
type Snapshot struct {
	LatestTrade  *Trade `json:"latestTrade"`
	LatestQuote  *Quote `json:"latestQuote"`
	MinuteBar    *Bar   `json:"minuteBar"`
	DailyBar     *Bar   `json:"dailyBar"`
	PrevDailyBar *Bar   `json:"prevDailyBar"`
}

// NewsArticle is one news item.
type NewsArticle struct {
	ID        int64     `json:"id"`
	Headline  string    `json:"headline"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content,omitempty"`
	URL       string    `json:"url"`
	Symbols   []string  `json:"symbols"`
	Source    string    `json:"source"`
}

// OrderbookEntry is one price level.
type OrderbookEntry struct {
	Price float64 `json:"p"`
	Size  float64 `json:"s"`
}

// Orderbook is a crypto order book. Bids and asks are ordered best first.
type Orderbook struct {
	Timestamp time.Time        `json:"t"`
	Bids      []OrderbookEntry `json:"b"`
	Asks      []OrderbookEntry `json:"a"`
}

// OptionTrade is a single option print. Condition is one code, unlike stock trades.
type OptionTrade struct {
	Timestamp time.Time `json:"t"`
	Exchange  string    `json:"x"`
	Price     float64   `json:"p"`
	Size      float64   `json:"s"`
	Condition string    `json:"c,omitempty"`
}

// OptionQuote is a top-of-book option quote.
type OptionQuote struct {
	Timestamp   time.Time `json:"t"`
	BidExchange string    `json:"bx"`
	BidPrice    float64   `json:"bp"`
	BidSize     float64   `json:"bs"`
	AskExchange string    `json:"ax"`
	AskPrice    float64   `json:"ap"`
	AskSize     float64   `json:"as"`
	Condition   string    `json:"c,omitempty"`
}

// OptionSnapshot bundles the latest trade and quote of one contract.
type OptionSnapshot struct {
	LatestTrade *OptionTrade `json:"latestTrade"`
	LatestQuote *OptionQuote `json:"latestQuote"`
}

// OptionType is call or put.
type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// OptionStyle is the exercise style of a contract.
type OptionStyle string

const (
	OptionStyleAmerican OptionStyle = "american"
	OptionStyleEuropean OptionStyle = "european"
)

// OptionDeliverable is what one contract settles into.
type OptionDeliverable struct {
	Type                 string       `json:"type"`
	Symbol               string       `json:"symbol,omitempty"`
	AssetID              string       `json:"asset_id,omitempty"`
	Amount               *apd.Decimal `json:"amount,omitempty"`
	AllocationPercentage *apd.Decimal `json:"allocation_percentage,omitempty"`
	SettlementType       string       `json:"settlement_type,omitempty"`
	SettlementMethod     string       `json:"settlement_method,omitempty"`
}

// OptionContract is a listed option. Dates are YYYY-MM-DD.
type OptionContract struct {
	ID                string              `json:"id"`
	Symbol            string              `json:"symbol"`
	Name              string              `json:"name"`
	Status            string              `json:"status"`
	Tradable          bool                `json:"tradable"`
	ExpirationDate    string              `json:"expiration_date"`
	RootSymbol        string              `json:"root_symbol,omitempty"`
	UnderlyingSymbol  string              `json:"underlying_symbol"`
	UnderlyingAssetID string              `json:"underlying_asset_id"`
	Type              OptionType          `json:"type"`
	Style             OptionStyle         `json:"style"`
	StrikePrice       apd.Decimal         `json:"strike_price"`
	Multiplier        *apd.Decimal        `json:"multiplier,omitempty"`
	Size              *apd.Decimal        `json:"size,omitempty"`
	OpenInterest      *apd.Decimal        `json:"open_interest,omitempty"`
	OpenInterestDate  string              `json:"open_interest_date,omitempty"`
	ClosePrice        *apd.Decimal        `json:"close_price,omitempty"`
	ClosePriceDate    string              `json:"close_price_date,omitempty"`
	Deliverables      []OptionDeliverable `json:"deliverables,omitempty"`
}
