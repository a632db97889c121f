package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID           string        `json:"id"`
	Number       string        `json:"orderNumber"`
	Customer     Customer      `json:"customer"`
	Payment      PaymentMethod `json:"payment"`
	DeliveryTime DeliveryTime  `json:"deliveryTime"`
	Cart         CartSnapshot  `json:"cart"`
	CreatedAt    time.Time     `json:"timestamp"`
	Status       OrderStatus   `json:"status"`
}

// Clone returns a copy whose cart snapshot is independent of o.
func (o Order) Clone() Order {
	o.Cart = o.Cart.Clone()
	return o
}

type Customer struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address"`
	Instructions string `json:"instructions,omitempty"`
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentOnline         PaymentMethod = "online"
)

type DeliveryTime string

const (
	DeliveryASAP     DeliveryTime = "asap"
	DeliveryOneHour  DeliveryTime = "1hour"
	DeliveryTwoHours DeliveryTime = "2hour"
	DeliverySpecific DeliveryTime = "specific"
)

type OrderStatus string

// StatusConfirmed is the only status ever stored; progress is derived from
// elapsed time when an order is tracked.
const StatusConfirmed OrderStatus = "confirmed"

// Stage is a simulated fulfilment step.
type Stage string

const (
	StageConfirmed      Stage = "confirmed"
	StagePreparing      Stage = "preparing"
	StageBaking         Stage = "baking"
	StageQualityCheck   Stage = "quality-check"
	StageOutForDelivery Stage = "out-for-delivery"
	StageDelivered      Stage = "delivered"
)

// Stages lists every stage in fulfilment order.
var Stages = []Stage{
	StageConfirmed,
	StagePreparing,
	StageBaking,
	StageQualityCheck,
	StageOutForDelivery,
	StageDelivered,
}

// Totals is the priced summary of a set of cart lines.
type Totals struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	Tax                   decimal.Decimal `json:"tax"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee"`
	Total                 decimal.Decimal `json:"total"`
	ItemCount             int             `json:"itemCount"`
	FreeDeliveryShortfall decimal.Decimal `json:"freeDeliveryShortfall"`
}
