package adminapi

import (
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/webserver"
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
)

type analyticsSummary struct {
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	PaidOrders     int64            `json:"paid_orders"`
	Revenue        float64          `json:"revenue"`
	MeanOrderValue float64          `json:"mean_order_value"`
	MedianOrder    float64          `json:"median_order_value"`
	P90OrderValue  float64          `json:"p90_order_value"`
	TopProducts    []topProduct     `json:"top_products"`
}

type topProduct struct {
	ProductID int64  `json:"product_id,string"`
	Name      string `json:"name"`
	Sold      int64  `json:"sold"`
}

// analytics aggregates paid-order revenue and per-status counts.
func (h *Handler) analytics(c echo.Context) error {
	ctx := c.Request().Context()
	db := webserver.GetDB(c)
	summary := analyticsSummary{OrdersByStatus: make(map[string]int64)}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := db.WithContext(ctx).Model(&domain.Order{}).
		Select("status, count(*) as count").Group("status").
		Scan(&counts).Error; err != nil {
		return fail(c, err)
	}
	for _, sc := range counts {
		summary.OrdersByStatus[sc.Status] = sc.Count
	}

	var paid []domain.Order
	if err := db.WithContext(ctx).
		Where("payment_status = ?", domain.PaymentStatusPaid).
		Find(&paid).Error; err != nil {
		return fail(c, err)
	}
	summary.PaidOrders = int64(len(paid))

	totals := make([]float64, 0, len(paid))
	for _, o := range paid {
		v, _ := o.Total.Float64()
		totals = append(totals, v)
		summary.Revenue += v
	}
	if len(totals) > 0 {
		summary.MeanOrderValue, _ = stats.Mean(totals)
		summary.MedianOrder, _ = stats.Median(totals)
		summary.P90OrderValue, _ = stats.Percentile(totals, 90)
	}

	var top []topProduct
	if err := db.WithContext(ctx).Model(&domain.OrderItem{}).
		Select("order_item.product_id, order_item.name, sum(order_item.quantity) as sold").
		Joins("JOIN order_record ON order_record.id = order_item.order_id").
		Where("order_record.payment_status = ?", domain.PaymentStatusPaid).
		Group("order_item.product_id, order_item.name").
		Order("sold desc").Limit(10).
		Scan(&top).Error; err != nil {
		return fail(c, err)
	}
	summary.TopProducts = top

	return ok(c, summary)
}
