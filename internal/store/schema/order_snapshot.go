package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderSnapshot represents the order_snapshots table - the state of an order as reported
// by the marketplace at one lastModifiedDate. Snapshots are append-only; the current
// state of an order is the snapshot with the highest last_modified_date.
//
// json tags are the marketplace wire names the write delegate decodes from.
type OrderSnapshot struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// OrderNumber is the marketplace order number
	OrderNumber string `gorm:"column:order_number;not null;type:text;uniqueIndex:uq_order_snapshots_order_lmd_account,priority:1;index:idx_order_snapshots_order_number;index:idx_order_snapshots_order_lmd,priority:1;index:idx_order_snapshots_order_status_lmd,priority:1" json:"orderNumber"`
	// LastModifiedDate is the marketplace modification time in epoch milliseconds
	LastModifiedDate int64 `gorm:"column:last_modified_date;not null;uniqueIndex:uq_order_snapshots_order_lmd_account,priority:2;index:idx_order_snapshots_order_lmd,priority:2;index:idx_order_snapshots_order_status_lmd,priority:3" json:"lastModifiedDate"`
	// AccountID references accounts.id
	AccountID int64 `gorm:"column:account_id;not null;uniqueIndex:uq_order_snapshots_order_lmd_account,priority:3" json:"accountId"`
	// PackageID is the marketplace shipment package id
	PackageID int64 `gorm:"column:package_id" json:"packageId"`
	// Status is the package status at LastModifiedDate
	Status                string `gorm:"column:status;not null;type:text;index:idx_order_snapshots_order_status_lmd,priority:2" json:"status"`
	ShipmentPackageStatus string `gorm:"column:shipment_package_status;type:text" json:"shipmentPackageStatus"`
	OrderDate             int64  `gorm:"column:order_date" json:"orderDate"`

	GrossAmount   decimal.Decimal `gorm:"column:gross_amount;type:numeric(18,2)" json:"grossAmount"`
	TotalDiscount decimal.Decimal `gorm:"column:total_discount;type:numeric(18,2)" json:"totalDiscount"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price;type:numeric(18,2)" json:"totalPrice"`
	CurrencyCode  string          `gorm:"column:currency_code;type:text" json:"currencyCode"`

	CustomerID        *int64 `gorm:"column:customer_id" json:"customerId"`
	CustomerFirstName string `gorm:"column:customer_first_name;type:text" json:"customerFirstName"`
	CustomerLastName  string `gorm:"column:customer_last_name;type:text" json:"customerLastName"`
	CustomerEmail     string `gorm:"column:customer_email;type:text" json:"customerEmail"`

	// ShipmentAddress and InvoiceAddress hold the structured addresses as JSON
	ShipmentAddress datatypes.JSON `gorm:"column:shipment_address" json:"shipmentAddress"`
	InvoiceAddress  datatypes.JSON `gorm:"column:invoice_address" json:"invoiceAddress"`

	CargoTrackingNumber        *int64 `gorm:"column:cargo_tracking_number" json:"cargoTrackingNumber"`
	CargoTrackingLink          string `gorm:"column:cargo_tracking_link;type:text" json:"cargoTrackingLink"`
	CargoProviderName          string `gorm:"column:cargo_provider_name;type:text" json:"cargoProviderName"`
	DeliveryType               string `gorm:"column:delivery_type;type:text" json:"deliveryType"`
	EstimatedDeliveryStartDate int64  `gorm:"column:estimated_delivery_start_date" json:"estimatedDeliveryStartDate"`
	EstimatedDeliveryEndDate   int64  `gorm:"column:estimated_delivery_end_date" json:"estimatedDeliveryEndDate"`
	AgreedDeliveryDate         int64  `gorm:"column:agreed_delivery_date" json:"agreedDeliveryDate"`
	FastDelivery               bool   `gorm:"column:fast_delivery" json:"fastDelivery"`
	// ThirdPartyFulfilled is sent by the marketplace under a key that is not a valid identifier
	ThirdPartyFulfilled bool `gorm:"column:third_party_fulfilled" json:"thirdPartyFulfilled"`

	// PackageHistories is the status history list as JSON
	PackageHistories datatypes.JSON `gorm:"column:package_histories" json:"packageHistories"`

	// PrintedAt is set by the label subsystem; the only column ever updated
	PrintedAt *time.Time `gorm:"column:printed_at" json:"-"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;autoCreateTime" json:"-"`
}

// TableName specifies the table name for the OrderSnapshot model
func (OrderSnapshot) TableName() string {
	return "order_snapshots"
}
