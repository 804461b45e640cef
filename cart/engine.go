package cart

import "time"

// Product is the catalogue entry a line item was built from.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
	CategoryID uint   `json:"category_id,omitempty"`
}

// Variant is one priced option of a product, e.g. "Large" / "Iced".
type Variant struct {
	ID    string `json:"id"`
	Size  string `json:"size,omitempty"`
	Label string `json:"variant,omitempty"`
	Price Paise  `json:"price"`
}

// DisplayLabel joins the size and variant labels, skipping empty ones.
func (v Variant) DisplayLabel() string {
	switch {
	case v.Size != "" && v.Label != "":
		return v.Size + " " + v.Label
	case v.Size != "":
		return v.Size
	default:
		return v.Label
	}
}

type Addon struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price Paise  `json:"price"`
}

// LineItem is one row of the cart. Quantity is always positive.
type LineItem struct {
	Key      string  `json:"key"`
	Product  Product `json:"product"`
	Variant  Variant `json:"variant"`
	Addons   []Addon `json:"addons"`
	Quantity int     `json:"quantity"`
}

// UnitPrice is the variant price plus every add-on, for one unit.
func (li LineItem) UnitPrice() Paise {
	p := li.Variant.Price
	for _, a := range li.Addons {
		p += a.Price
	}
	return p
}

// Total is UnitPrice times Quantity.
func (li LineItem) Total() Paise {
	return li.UnitPrice() * Paise(li.Quantity)
}

// Key builds the merge key for a product and variant pair.
func Key(productID, variantID string) string {
	return productID + "-" + variantID
}

// DefaultMaxLineQuantity caps the quantity of a single line.
const DefaultMaxLineQuantity = 99

// Engine holds one cart. It is not safe for concurrent use; callers that
// share an Engine between goroutines go through Sessions.
type Engine struct {
	items     []LineItem
	takeaway  bool
	surcharge Paise
	fees      FeeSchedule
	toasts    *ToastQueue
	maxQty    int
}

// NewEngine returns an empty dine-in cart.
func NewEngine(fees FeeSchedule, toastTTL time.Duration) *Engine {
	if fees == nil {
		fees = DefaultFeeSchedule()
	}
	return &Engine{
		fees:   fees,
		toasts: NewToastQueue(toastTTL),
		maxQty: DefaultMaxLineQuantity,
	}
}

// SetMaxLineQuantity changes the per-line cap. Values below 1 restore the
// default. Existing lines above the new cap are not touched.
func (e *Engine) SetMaxLineQuantity(n int) {
	if n < 1 {
		n = DefaultMaxLineQuantity
	}
	e.maxQty = n
}

// MaxLineQuantity is the most units a single line can hold.
func (e *Engine) MaxLineQuantity() int { return e.maxQty }

// Add merges the product/variant pair into the cart. A new key is appended
// with quantity 1 and the given add-ons; an existing key only gains one
// unit and keeps the add-ons it was first added with. A line already at
// MaxLineQuantity is left unchanged and no toast is emitted.
func (e *Engine) Add(product Product, variant Variant, addons ...Addon) LineItem {
	key := Key(product.ID, variant.ID)

	idx := e.indexOf(key)
	if idx >= 0 {
		if e.items[idx].Quantity >= e.maxQty {
			return cloneLine(e.items[idx])
		}
		e.items[idx].Quantity++
	} else {
		e.items = append(e.items, LineItem{
			Key:      key,
			Product:  product,
			Variant:  variant,
			Addons:   append([]Addon{}, addons...),
			Quantity: 1,
		})
		idx = len(e.items) - 1
	}

	e.toasts.Push(Toast{
		ProductName: product.Name,
		Variant:     variant.DisplayLabel(),
		AddonCount:  len(e.items[idx].Addons),
	})
	e.recompute()
	return cloneLine(e.items[idx])
}

// Remove deletes the line with the given key. Unknown keys are ignored.
func (e *Engine) Remove(key string) {
	idx := e.indexOf(key)
	if idx < 0 {
		return
	}
	e.items = append(e.items[:idx], e.items[idx+1:]...)
	e.recompute()
}

// SetQuantity sets the quantity of an existing line. Zero or negative
// quantities remove it, values above MaxLineQuantity are clamped to it.
// Unknown keys are ignored.
func (e *Engine) SetQuantity(key string, quantity int) {
	if quantity <= 0 {
		e.Remove(key)
		return
	}
	if quantity > e.maxQty {
		quantity = e.maxQty
	}
	idx := e.indexOf(key)
	if idx < 0 {
		return
	}
	e.items[idx].Quantity = quantity
	e.recompute()
}

// SetOrderType switches between takeaway and dine-in.
func (e *Engine) SetOrderType(takeaway bool) {
	e.takeaway = takeaway
	e.recompute()
}

// Clear empties the cart and returns it to dine-in. Pending toasts are left
// to expire on their own.
func (e *Engine) Clear() {
	e.items = nil
	e.takeaway = false
	e.surcharge = 0
}

// Items returns a copy of the lines in insertion order.
func (e *Engine) Items() []LineItem {
	out := make([]LineItem, len(e.items))
	for i, li := range e.items {
		out[i] = cloneLine(li)
	}
	return out
}

// Item looks up a single line by key.
func (e *Engine) Item(key string) (LineItem, bool) {
	idx := e.indexOf(key)
	if idx < 0 {
		return LineItem{}, false
	}
	return cloneLine(e.items[idx]), true
}

func (e *Engine) IsEmpty() bool { return len(e.items) == 0 }

func (e *Engine) Takeaway() bool { return e.takeaway }

// OrderType reports "takeaway" or "dine-in".
func (e *Engine) OrderType() string {
	if e.takeaway {
		return OrderTypeTakeaway
	}
	return OrderTypeDineIn
}

// TotalItemCount is the sum of all quantities.
func (e *Engine) TotalItemCount() int {
	n := 0
	for _, li := range e.items {
		n += li.Quantity
	}
	return n
}

func (e *Engine) Subtotal() Paise {
	var total Paise
	for _, li := range e.items {
		total += li.Total()
	}
	return total
}

// Surcharge is the takeaway fee currently applied; zero for dine-in.
func (e *Engine) Surcharge() Paise { return e.surcharge }

func (e *Engine) GrandTotal() Paise { return e.Subtotal() + e.surcharge }

// Toasts returns the unexpired "added to cart" notifications.
func (e *Engine) Toasts() []Toast { return e.toasts.Active() }

// Fees exposes the schedule the engine charges from.
func (e *Engine) Fees() FeeSchedule { return e.fees }

const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeaway = "takeaway"
)

func (e *Engine) recompute() {
	if !e.takeaway {
		e.surcharge = 0
		return
	}
	e.surcharge = e.fees.For(e.TotalItemCount())
}

func (e *Engine) indexOf(key string) int {
	for i := range e.items {
		if e.items[i].Key == key {
			return i
		}
	}
	return -1
}

func cloneLine(li LineItem) LineItem {
	li.Addons = append([]Addon{}, li.Addons...)
	return li
}
