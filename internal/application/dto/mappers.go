package dto

import "github.com/jhoicas/retail-ledger-api/internal/domain/entity"

// ToProductResponse convierte la entidad en su representación HTTP.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Category:          p.Category,
		Description:       p.Description,
		ImageURL:          p.ImageURL,
		PricePerKg:        p.PricePerKg,
		PurchaseCostPerKg: p.PurchaseCostPerKg,
		AvailableStockKg:  p.AvailableStockKg,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		Archived:          p.IsArchived(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToSaleResponse convierte una venta.
func ToSaleResponse(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:           s.ID,
		ProductID:    s.ProductID,
		ProductName:  s.ProductName,
		QuantityKg:   s.QuantityKg,
		RatePerKg:    s.RatePerKg,
		Total:        s.Total,
		PaymentType:  s.PaymentType,
		CustomerName: s.CustomerName,
		Notes:        s.Notes,
		Status:       s.Status,
		MovementID:   s.MovementID,
		Version:      s.Version,
		SaleDate:     s.SaleDate,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		DeletedAt:    s.DeletedAt,
	}
}

// ToMovementResponse convierte un movimiento; productName puede ir vacío.
func ToMovementResponse(m *entity.StockMovement, productName string) MovementResponse {
	return MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		ProductName:       productName,
		Type:              m.Type,
		Source:            m.Source,
		QuantityKg:        m.QuantityKg,
		PurchaseCostPerKg: m.UnitCost,
		ReferenceID:       m.ReferenceID,
		SupplierID:        m.SupplierID,
		InvoiceRef:        m.InvoiceRef,
		Notes:             m.Notes,
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
	}
}

// ToExpenseResponse convierte un gasto.
func ToExpenseResponse(e *entity.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Title:       e.Title,
		Amount:      e.Amount,
		Category:    e.Category,
		Notes:       e.Notes,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
	}
}

// ToSupplierResponse convierte un proveedor.
func ToSupplierResponse(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		Phone:         s.Phone,
		ItemsSupplied: s.ItemsSupplied,
		CreatedAt:     s.CreatedAt,
	}
}

// ToActivityLogResponse convierte una entrada de bitácora.
func ToActivityLogResponse(e *entity.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:         e.ID,
		ActionType: e.ActionType,
		ObjectType: e.ObjectType,
		ObjectID:   e.ObjectID,
		OldValue:   e.OldValue,
		NewValue:   e.NewValue,
		Actor:      e.Actor,
		Timestamp:  e.Timestamp,
	}
}

// ToUserResponse convierte un usuario (sin hash).
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Role:                u.Role,
		ForcePasswordChange: u.ForcePasswordChange,
		Name:                u.Name,
		Phone:               u.Phone,
		Email:               u.Email,
		CreatedAt:           u.CreatedAt,
	}
}
