package entity

import "time"

// Supplier proveedor.
type Supplier struct {
	ID            string
	Name          string
	Phone         string
	ItemsSupplied string
	CreatedAt     time.Time
}
