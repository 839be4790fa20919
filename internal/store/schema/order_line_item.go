package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineItem represents the order_line_items table. The unique key leaves out the
// snapshot timestamp, so a line seen again in a later cycle collapses onto the first row.
type OrderLineItem struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	OrderNumber string `gorm:"column:order_number;not null;type:text;uniqueIndex:uq_order_line_items_logical,priority:1;index:idx_order_line_items_order_number" json:"orderNumber"`
	ProductCode int64  `gorm:"column:product_code;not null;uniqueIndex:uq_order_line_items_logical,priority:2" json:"productCode"`
	LineStatus  string `gorm:"column:line_status;not null;type:text;uniqueIndex:uq_order_line_items_logical,priority:3" json:"orderLineItemStatusName"`
	AccountID   int64  `gorm:"column:account_id;not null;uniqueIndex:uq_order_line_items_logical,priority:4" json:"accountId"`

	PackageID     int64           `gorm:"column:package_id" json:"packageId"`
	LineID        int64           `gorm:"column:line_id" json:"lineId"`
	Quantity      int             `gorm:"column:quantity;not null" json:"quantity"`
	ProductName   string          `gorm:"column:product_name;type:text" json:"productName"`
	MerchantSKU   string          `gorm:"column:merchant_sku;type:text" json:"merchantSku"`
	Barcode       string          `gorm:"column:barcode;type:text" json:"barcode"`
	ProductSize   string          `gorm:"column:product_size;type:text" json:"productSize"`
	ProductColor  string          `gorm:"column:product_color;type:text" json:"productColor"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(18,2)" json:"amount"`
	Discount      decimal.Decimal `gorm:"column:discount;type:numeric(18,2)" json:"discount"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(18,2)" json:"price"`
	VatBaseAmount decimal.Decimal `gorm:"column:vat_base_amount;type:numeric(18,2)" json:"vatBaseAmount"`
	Commission    decimal.Decimal `gorm:"column:commission;type:numeric(18,2)" json:"commission"`
	CurrencyCode  string          `gorm:"column:currency_code;type:text" json:"currencyCode"`
	// TaskDate is when the line entered the order's current status, epoch milliseconds
	TaskDate  int64     `gorm:"column:task_date;not null" json:"taskDate"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"-"`
}

// TableName specifies the table name for the OrderLineItem model
func (OrderLineItem) TableName() string {
	return "order_line_items"
}
