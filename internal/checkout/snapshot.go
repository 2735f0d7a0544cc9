package checkout

import (
	"fmt"
	"time"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/Abu-Issam/buyshea-connect/internal/payment"
	"github.com/shopspring/decimal"
)

// cartSnapshot captures the cart at submit time; prices cannot drift while
// the visitor is paying.
type cartSnapshot struct {
	Items      []d.OrderItem
	Total      decimal.Decimal
	CapturedAt time.Time
}

func takeSnapshot(lines []d.CartLine, total decimal.Decimal, now time.Time) cartSnapshot {
	items := make([]d.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, d.OrderItem{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.Product.Price,
			Subtotal:    l.Subtotal(),
		})
	}
	return cartSnapshot{Items: items, Total: total, CapturedAt: now}
}

// CartItemMeta is the itemized cart entry sent along with the payment.
type CartItemMeta struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func orderID(now time.Time) string {
	return fmt.Sprintf("ORDER_%d", now.UnixMilli())
}

func buildMetadata(id string, customer d.CustomerInfo, snap cartSnapshot) payment.Metadata {
	items := make([]CartItemMeta, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, CartItemMeta{
			ID:       it.ProductID,
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Price:    it.UnitPrice.InexactFloat64(),
		})
	}

	return payment.Metadata{
		{Key: "order_id", Value: id},
		{Key: "items", Value: len(snap.Items)},
		{Key: "customer_name", Value: customer.Name},
		{Key: "cart_items", Value: items},
	}
}
