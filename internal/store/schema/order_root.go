package schema

import "time"

// OrderRoot represents the order_roots table - the identity anchor of an order within one account.
// Rows are only ever inserted.
type OrderRoot struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNumber string    `gorm:"column:order_number;not null;type:text;uniqueIndex:uq_order_roots_order_account,priority:1"`
	AccountID   int64     `gorm:"column:account_id;not null;uniqueIndex:uq_order_roots_order_account,priority:2"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the OrderRoot model
func (OrderRoot) TableName() string {
	return "order_roots"
}
