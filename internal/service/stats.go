package service

import (
	"context"
	"sort"

	"pos-service/internal/models"
	"pos-service/internal/util"
)

// OrderLister is what the stats service needs from the order repository
type OrderLister interface {
	Orders(ctx context.Context) ([]models.Order, error)
}

// ProductSales aggregates a product's sold quantity and revenue
type ProductSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// Summary is the sales statistics view
type Summary struct {
	TotalSales        int64            `json:"total_sales"`
	TotalOrders       int              `json:"total_orders"`
	AverageOrderValue int64            `json:"average_order_value"`
	TotalCustomers    int              `json:"total_customers"`
	SalesByDate       map[string]int64 `json:"sales_by_date"`
	SalesByProduct    map[string]int64 `json:"sales_by_product"`
	TopProducts       []ProductSales   `json:"top_products"`
}

// StatsService aggregates sales statistics over the full order history
type StatsService struct {
	orders OrderLister
}

// NewStatsService creates a stats service
func NewStatsService(orders OrderLister) *StatsService {
	return &StatsService{orders: orders}
}

// topProductsLimit caps the ranked list in the summary
const topProductsLimit = 5

// Compute builds the summary from the order history (remote with local
// fallback, like every other read)
func (s *StatsService) Compute(ctx context.Context) (*Summary, error) {
	ctx, span := util.StartSpan(ctx, "StatsService.Compute")
	defer span.End()

	orders, err := s.orders.Orders(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		SalesByDate:    make(map[string]int64),
		SalesByProduct: make(map[string]int64),
	}
	customers := make(map[string]struct{})
	byProduct := make(map[string]*ProductSales)

	for i := range orders {
		order := &orders[i]
		summary.TotalSales += order.FinalTotal
		summary.TotalOrders++
		customers[order.CustomerName] = struct{}{}
		summary.SalesByDate[order.Date.Format("2006-01-02")] += order.FinalTotal

		for _, item := range order.Items {
			revenue := item.Price * int64(item.Quantity)
			summary.SalesByProduct[item.ProductName] += revenue

			ps, ok := byProduct[item.ProductName]
			if !ok {
				ps = &ProductSales{Name: item.ProductName}
				byProduct[item.ProductName] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue += revenue
		}
	}

	summary.TotalCustomers = len(customers)
	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalSales / int64(summary.TotalOrders)
	}

	ranked := make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		ranked = append(ranked, *ps)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > topProductsLimit {
		ranked = ranked[:topProductsLimit]
	}
	summary.TopProducts = ranked

	return summary, nil
}
