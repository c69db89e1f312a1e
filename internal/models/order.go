package models

import "time"

// RawOrder mirrors the order objects returned by the management API. Only the
// fields the report needs are decoded; the rest of the payload is ignored.
type RawOrder struct {
	Reference     string     `json:"reference"`
	SubtotalPrice *float64   `json:"subtotal_price"`
	Branch        *RawBranch `json:"branch"`
	Meta          struct {
		Foodics struct {
			KitchenReceivedAt string `json:"kitchen_received_at"`
			KitchenDoneAt     string `json:"kitchen_done_at"`
		} `json:"foodics"`
	} `json:"meta"`
}

type RawBranch struct {
	Reference     string `json:"reference"`
	NameLocalized string `json:"name_localized"`
}

// Order is the normalized per-order record accumulated over the month.
// KitchenReceived and KitchenDone are local (Asia/Riyadh) times; PeriodMinutes
// is derived from them during extraction and never set independently.
type Order struct {
	OrderRef        string     `json:"order_ref"`
	BranchID        string     `json:"branch_id"`
	BranchName      string     `json:"branch_name"`
	ExcVatPrice     float64    `json:"exc_vat_price"`
	BusinessDate    string     `json:"business_date"`
	KitchenReceived *time.Time `json:"kitchen_received"`
	KitchenDone     *time.Time `json:"kitchen_done"`
	PeriodMinutes   *float64   `json:"period_minutes"`
}

// BranchSummary is one row of the monthly report.
type BranchSummary struct {
	BranchCode      string  `json:"branch_code"`
	BranchName      string  `json:"branch_name"`
	TotalOrders     int     `json:"total_orders"`
	DelayedOrders   int     `json:"delayed_orders"`
	PercentDelayed  float64 `json:"percent_delayed"`
	AverageDuration float64 `json:"average_duration_orders"`
}
