package cart

import (
	"sync"
	"time"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	ShippingFee           = decimal.NewFromInt(20)
)

const RemovedTitle = "Item removed from cart"

// Cart holds the lines of one visitor. Lines keep insertion order and there is
// at most one line per product id.
type Cart struct {
	mu       sync.Mutex
	lines    []d.CartLine
	notifier d.Notifier
	onChange func([]d.CartLine)
	now      func() time.Time
}

func New(notifier d.Notifier) *Cart {
	return &Cart{notifier: notifier, now: time.Now}
}

// OnChange registers fn to receive a snapshot of the lines after every mutation.
func (c *Cart) OnChange(fn func([]d.CartLine)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// AddOrIncrement creates a line with quantity max(1, delta) or shifts the
// existing quantity by delta, never below 1.
func (c *Cart) AddOrIncrement(p d.Product, delta int) {
	c.mu.Lock()
	i := c.indexOf(p.ID)
	if i < 0 {
		c.lines = append(c.lines, d.CartLine{Product: p, Quantity: max(1, delta)})
	} else {
		c.lines[i].Quantity = max(1, c.lines[i].Quantity+delta)
	}
	snapshot, fn := c.snapshotLocked(), c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// Remove deletes the line for productID. Absent ids are ignored silently.
func (c *Cart) Remove(productID string) bool {
	c.mu.Lock()
	i := c.indexOf(productID)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	snapshot, fn := c.snapshotLocked(), c.onChange
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Notify(d.Notification{
			Level:     d.NotificationSuccess,
			Title:     RemovedTitle,
			CreatedAt: c.now(),
		})
	}
	if fn != nil {
		fn(snapshot)
	}
	return true
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(nil)
	}
}

// Restore replaces the lines without notifying observers. Lines with a
// quantity below 1 are dropped and duplicate product ids are merged.
func (c *Cart) Restore(lines []d.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i := c.indexOf(l.Product.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
}

func (c *Cart) Lines() []d.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// ItemCount is the sum of all quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) Totals() d.Totals {
	return ComputeTotals(c.Lines())
}

// ComputeTotals applies the shipping rule: free strictly above the threshold,
// a flat fee otherwise.
func ComputeTotals(lines []d.CartLine) d.Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}

	shipping := ShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	remaining := decimal.Zero
	if subtotal.LessThan(FreeShippingThreshold) {
		remaining = FreeShippingThreshold.Sub(subtotal)
	}

	return d.Totals{
		Subtotal:              subtotal,
		Shipping:              shipping,
		Total:                 subtotal.Add(shipping),
		FreeShippingRemaining: remaining,
	}
}

func (c *Cart) indexOf(productID string) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) snapshotLocked() []d.CartLine {
	if len(c.lines) == 0 {
		return nil
	}
	out := make([]d.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
