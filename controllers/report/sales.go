package reportControllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
)

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// SalesStore lists settled orders.
type SalesStore interface {
	DeliveredSince(ctx context.Context, since time.Time) ([]models.Order, error)
}

type SaleRow struct {
	OrderID     uint      `json:"order_id"`
	OrderRef    string    `json:"order_ref"`
	CreatedAt   time.Time `json:"created_at"`
	Table       string    `json:"table"`
	OrderType   string    `json:"order_type"`
	Amount      int64     `json:"amount"`
	AmountRupee string    `json:"amount_rupees"`
}

type SalesReport struct {
	Period        string    `json:"period"`
	From          time.Time `json:"from,omitempty"`
	OrderCount    int       `json:"order_count"`
	Total         int64     `json:"total"`
	TotalRupees   string    `json:"total_rupees"`
	AverageRupees string    `json:"average_rupees"`
	Orders        []SaleRow `json:"orders"`
}

// PeriodStart returns the first instant of period relative to now. "week" is
// the trailing seven days; "all" returns the zero time.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "", PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	case PeriodWeek:
		return now.AddDate(0, 0, -7), nil
	case PeriodMonth:
		y, m, _ := now.Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodAll:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unknown period %q", period)
	}
}

// BuildReport totals orders. Deleted orders never count towards sales.
func BuildReport(period string, from time.Time, orders []models.Order) SalesReport {
	r := SalesReport{Period: period, From: from, Orders: []SaleRow{}}
	for _, o := range orders {
		if o.Status != models.OrderStatusDelivered || o.DeletedAt.Valid {
			continue
		}
		table := o.Address.Table
		if table == "" {
			table = "N/A"
		}
		r.Orders = append(r.Orders, SaleRow{
			OrderID:     o.ID,
			OrderRef:    o.OrderRef,
			CreatedAt:   o.CreatedAt,
			Table:       table,
			OrderType:   o.OrderType,
			Amount:      o.TotalAmount,
			AmountRupee: cart.Paise(o.TotalAmount).Rupees().StringFixed(2),
		})
		r.Total += o.TotalAmount
	}
	r.OrderCount = len(r.Orders)

	total := cart.Paise(r.Total).Rupees()
	r.TotalRupees = total.StringFixed(2)
	r.AverageRupees = "0.00"
	if r.OrderCount > 0 {
		r.AverageRupees = total.Div(decimal.NewFromInt(int64(r.OrderCount))).StringFixed(2)
	}
	return r
}

func loadReport(c *gin.Context, sales SalesStore) (SalesReport, bool) {
	period := c.DefaultQuery("period", PeriodToday)
	from, err := PeriodStart(period, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return SalesReport{}, false
	}
	orders, err := sales.DeliveredSince(c.Request.Context(), from)
	if err != nil {
		log.WithError(err).WithField("period", period).Error("❌ Failed to load sales")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sales"})
		return SalesReport{}, false
	}
	return BuildReport(period, from, orders), true
}

// GET /admin/reports/sales?period=today|week|month|all
func GetSalesReport(sales SalesStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := loadReport(c, sales)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// GET /admin/reports/sales/export?period=
func ExportSalesReport(sales SalesStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := loadReport(c, sales)
		if !ok {
			return
		}

		file, err := SalesWorkbook(report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sales-%s.xlsx", report.Period))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			log.WithError(err).Error("❌ Failed to write sales workbook")
		}
	}
}

// SalesWorkbook lays a report out as one sheet of orders and a totals footer.
func SalesWorkbook(report SalesReport) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range []string{"Order ID", "Order Ref", "Date", "Table", "Order Type", "Amount (₹)"} {
		header.AddCell().SetValue(h)
	}
	for _, o := range report.Orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderID)
		row.AddCell().SetValue(o.OrderRef)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetValue(o.Table)
		row.AddCell().SetValue(o.OrderType)
		row.AddCell().SetValue(o.AmountRupee)
	}

	sheet.AddRow()
	for _, kv := range [][2]string{
		{"Orders", fmt.Sprint(report.OrderCount)},
		{"Total (₹)", report.TotalRupees},
		{"Average (₹)", report.AverageRupees},
	} {
		row := sheet.AddRow()
		row.AddCell().SetValue(kv[0])
		row.AddCell().SetValue(kv[1])
	}
	return file, nil
}
