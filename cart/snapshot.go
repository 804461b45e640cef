package cart

// Line is a LineItem with its prices worked out.
type Line struct {
	LineItem
	UnitPrice Paise `json:"unit_price"`
	LineTotal Paise `json:"line_total"`
}

// Snapshot is a read-only view of an engine, ready to serialise.
type Snapshot struct {
	Items            []Line  `json:"items"`
	OrderType        string  `json:"order_type"`
	TotalItemCount   int     `json:"total_item_count"`
	Subtotal         Paise   `json:"subtotal"`
	OrderSurcharge   Paise   `json:"order_surcharge"`
	GrandTotal       Paise   `json:"grand_total"`
	SubtotalRupees   string  `json:"subtotal_rupees"`
	SurchargeRupees  string  `json:"surcharge_rupees"`
	GrandTotalRupees string  `json:"grand_total_rupees"`
	Toasts           []Toast `json:"toasts"`
}

func (e *Engine) Snapshot() Snapshot {
	lines := make([]Line, 0, len(e.items))
	for _, li := range e.items {
		lines = append(lines, Line{
			LineItem:  cloneLine(li),
			UnitPrice: li.UnitPrice(),
			LineTotal: li.Total(),
		})
	}
	sub := e.Subtotal()
	return Snapshot{
		Items:            lines,
		OrderType:        e.OrderType(),
		TotalItemCount:   e.TotalItemCount(),
		Subtotal:         sub,
		OrderSurcharge:   e.surcharge,
		GrandTotal:       sub + e.surcharge,
		SubtotalRupees:   sub.Rupees().StringFixed(2),
		SurchargeRupees:  e.surcharge.Rupees().StringFixed(2),
		GrandTotalRupees: (sub + e.surcharge).Rupees().StringFixed(2),
		Toasts:           e.Toasts(),
	}
}
