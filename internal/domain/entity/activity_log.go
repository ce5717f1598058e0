package entity

import "time"

// Acciones registradas en la bitácora.
const (
	ActionCreate         = "CREATE"
	ActionUpdate         = "UPDATE"
	ActionDelete         = "DELETE"
	ActionArchive        = "ARCHIVE"
	ActionStockIn        = "STOCK_IN"
	ActionAdjust         = "STOCK_ADJUST"
	ActionPasswordChange = "PASSWORD_CHANGE"
)

// Tipos de objeto auditados.
const (
	ObjectProduct  = "product"
	ObjectSale     = "sale"
	ObjectStock    = "stock_movement"
	ObjectExpense  = "expense"
	ObjectSupplier = "supplier"
	ObjectUser     = "user"
)

// ActivityLog entrada de la bitácora. Solo se agrega, nunca se modifica.
// OldValue y NewValue son snapshots JSON.
type ActivityLog struct {
	ID         string
	ActionType string
	ObjectType string
	ObjectID   string
	OldValue   string
	NewValue   string
	Actor      string
	Timestamp  time.Time
}
