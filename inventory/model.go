package inventory

// Unit is the stock keeping unit of an item.
type Unit string

// UnitPieces is currently the only supported unit.
const UnitPieces Unit = "pcs"

// Item is a single inventory record. Category holds the category name, not its ID.
type Item struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Unit         Unit   `json:"unit"`
	Stock        int    `json:"stock"`
	MinimumStock int    `json:"minimumStock"`
	SupplierID   string `json:"supplierId"`
}

// LowStock reports whether the item is below its minimum stock.
func (it Item) LowStock() bool {
	return it.Stock < it.MinimumStock
}

// ItemInput is the payload for creating an item; the store assigns the ID.
type ItemInput struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Unit         Unit   `json:"unit"`
	Stock        int    `json:"stock"`
	MinimumStock int    `json:"minimumStock"`
	SupplierID   string `json:"supplierId"`
}

// ItemPatch carries a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Name         *string `json:"name,omitempty"`
	Category     *string `json:"category,omitempty"`
	Unit         *Unit   `json:"unit,omitempty"`
	Stock        *int    `json:"stock,omitempty"`
	MinimumStock *int    `json:"minimumStock,omitempty"`
	SupplierID   *string `json:"supplierId,omitempty"`
}

func (p ItemPatch) apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Unit != nil {
		it.Unit = *p.Unit
	}
	if p.Stock != nil {
		it.Stock = *p.Stock
	}
	if p.MinimumStock != nil {
		it.MinimumStock = *p.MinimumStock
	}
	if p.SupplierID != nil {
		it.SupplierID = *p.SupplierID
	}
	return it
}

// Category is a named grouping of items. Names are unique.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Supplier provides items.
type Supplier struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is one slice of a filtered item list plus the filtered total.
type Page struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// DeleteResult acknowledges a delete. OK is true even when nothing was removed.
type DeleteResult struct {
	OK bool `json:"ok"`
}
