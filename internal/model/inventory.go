package model

import (
	"time"

	"github.com/hay-kot/criterio"
)

const (
	InventoryNameMax        = 100
	InventoryDescriptionMax = 500
	InventoryCategoryMax    = 50
	InventoryLocationMax    = 100
)

// InventoryCategory is the set of categories the client offers. The server
// accepts any category text within the length bound.
type InventoryCategory string

const (
	InventoryElectronics    InventoryCategory = "electronics"
	InventoryOfficeSupplies InventoryCategory = "office_supplies"
	InventoryFurniture      InventoryCategory = "furniture"
	InventoryKitchen        InventoryCategory = "kitchen"
	InventoryCleaning       InventoryCategory = "cleaning"
	InventoryTools          InventoryCategory = "tools"
	InventoryStorage        InventoryCategory = "storage"
	InventorySafety         InventoryCategory = "safety"
	InventoryOther          InventoryCategory = "other"
)

var InventoryCategories = []InventoryCategory{
	InventoryElectronics, InventoryOfficeSupplies, InventoryFurniture, InventoryKitchen,
	InventoryCleaning, InventoryTools, InventoryStorage, InventorySafety, InventoryOther,
}

func (c InventoryCategory) IsValid() bool {
	switch c {
	case InventoryElectronics, InventoryOfficeSupplies, InventoryFurniture, InventoryKitchen,
		InventoryCleaning, InventoryTools, InventoryStorage, InventorySafety, InventoryOther:
		return true
	default:
		return false
	}
}

func (c InventoryCategory) Label() string {
	switch c {
	case InventoryElectronics:
		return "Electronics"
	case InventoryOfficeSupplies:
		return "Office Supplies"
	case InventoryFurniture:
		return "Furniture"
	case InventoryKitchen:
		return "Kitchen"
	case InventoryCleaning:
		return "Cleaning"
	case InventoryTools:
		return "Tools"
	case InventoryStorage:
		return "Storage"
	case InventorySafety:
		return "Safety"
	case InventoryOther:
		return "Other"
	default:
		return string(c)
	}
}

type InventoryItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"minQuantity"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsLowStock reports whether the item has a reorder threshold and is at or
// below it.
func (i InventoryItem) IsLowStock() bool {
	return i.MinQuantity > 0 && i.Quantity <= i.MinQuantity
}

// Value is the stock value of the item.
func (i InventoryItem) Value() float64 {
	return float64(i.Quantity) * i.Price
}

type InventoryInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"minQuantity"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
}

func (in InventoryInput) Validate() error {
	var errs criterio.FieldErrorsBuilder
	errs = appendText(errs, "name", in.Name, 1, InventoryNameMax)
	errs = appendText(errs, "description", in.Description, 0, InventoryDescriptionMax)
	errs = appendNonNegativeInt(errs, "quantity", in.Quantity)
	errs = appendNonNegativeInt(errs, "minQuantity", in.MinQuantity)
	errs = appendNonNegativeFloat(errs, "price", in.Price)
	errs = appendText(errs, "category", in.Category, 1, InventoryCategoryMax)
	errs = appendText(errs, "location", in.Location, 0, InventoryLocationMax)
	return errs.ToError()
}

// InventoryPatch is a partial update. An empty category or location keeps
// the stored value.
type InventoryPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	MinQuantity *int     `json:"minQuantity,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Location    *string  `json:"location,omitempty"`
}

func (p InventoryPatch) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if p.Name != nil {
		errs = appendText(errs, "name", *p.Name, 1, InventoryNameMax)
	}
	if p.Description != nil {
		errs = appendText(errs, "description", *p.Description, 0, InventoryDescriptionMax)
	}
	if p.Quantity != nil {
		errs = appendNonNegativeInt(errs, "quantity", *p.Quantity)
	}
	if p.MinQuantity != nil {
		errs = appendNonNegativeInt(errs, "minQuantity", *p.MinQuantity)
	}
	if p.Price != nil {
		errs = appendNonNegativeFloat(errs, "price", *p.Price)
	}
	if p.Category != nil {
		errs = appendText(errs, "category", *p.Category, 0, InventoryCategoryMax)
	}
	if p.Location != nil {
		errs = appendText(errs, "location", *p.Location, 0, InventoryLocationMax)
	}
	return errs.ToError()
}

func (p InventoryPatch) Apply(i InventoryItem) InventoryItem {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.MinQuantity != nil {
		i.MinQuantity = *p.MinQuantity
	}
	if p.Price != nil {
		i.Price = *p.Price
	}
	if p.Category != nil && *p.Category != "" {
		i.Category = *p.Category
	}
	if p.Location != nil && *p.Location != "" {
		i.Location = *p.Location
	}
	return i
}

// InventoryUpdate is one entry of a bulk update request.
type InventoryUpdate struct {
	ID   string         `json:"id"`
	Data InventoryPatch `json:"data"`
}
