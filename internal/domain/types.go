package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents a marketplace order lifecycle state
type OrderStatus string

const (
	OrderStatusAwaiting          OrderStatus = "Awaiting"
	OrderStatusCreated           OrderStatus = "Created"
	OrderStatusPicking           OrderStatus = "Picking"
	OrderStatusInvoiced          OrderStatus = "Invoiced"
	OrderStatusShipped           OrderStatus = "Shipped"
	OrderStatusAtCollectionPoint OrderStatus = "AtCollectionPoint"
	OrderStatusDelivered         OrderStatus = "Delivered"
	OrderStatusUnDelivered       OrderStatus = "UnDelivered"
	OrderStatusCancelled         OrderStatus = "Cancelled"
	OrderStatusUnPacked          OrderStatus = "UnPacked"
	OrderStatusReturned          OrderStatus = "Returned"
	OrderStatusUnSupplied        OrderStatus = "UnSupplied"
	OrderStatusReadyToShip       OrderStatus = "ReadyToShip"
)

var orderStatuses = []OrderStatus{
	OrderStatusAwaiting,
	OrderStatusCreated,
	OrderStatusPicking,
	OrderStatusInvoiced,
	OrderStatusShipped,
	OrderStatusAtCollectionPoint,
	OrderStatusDelivered,
	OrderStatusUnDelivered,
	OrderStatusCancelled,
	OrderStatusUnPacked,
	OrderStatusReturned,
	OrderStatusUnSupplied,
	OrderStatusReadyToShip,
}

// IsValidOrderStatus checks if a status is one of the marketplace lifecycle states
func IsValidOrderStatus(status OrderStatus) bool {
	for _, s := range orderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ParseOrderStatuses converts raw status names, rejecting unknown ones
func ParseOrderStatuses(raw []string) ([]OrderStatus, error) {
	statuses := make([]OrderStatus, 0, len(raw))
	for _, r := range raw {
		s := OrderStatus(r)
		if !IsValidOrderStatus(s) {
			return nil, ErrInvalidOrderStatus{Status: r}
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// Credentials are the per-account marketplace credentials
type Credentials struct {
	InternalID        int64
	APIKey            string
	APISecret         string
	ExternalAccountID string
}

// FetchWindow is a pair of epoch-millisecond bounds.
// Start is the most recent bound and End the least recent one; both are sent
// to the marketplace exactly as given.
type FetchWindow struct {
	Start int64
	End   int64
}

// WindowFromNow builds a window reaching back lookback from now
func WindowFromNow(now time.Time, lookback time.Duration) FetchWindow {
	return FetchWindow{
		Start: now.UnixMilli(),
		End:   now.Add(-lookback).UnixMilli(),
	}
}

// StatusHistoryEntry is one transition in an order's package history
type StatusHistoryEntry struct {
	CreatedDate int64       `json:"createdDate"`
	Status      OrderStatus `json:"status"`
}

// Address is a shipment or invoice address
type Address struct {
	ID           int64  `json:"id,omitempty"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Company      string `json:"company,omitempty"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2,omitempty"`
	City         string `json:"city"`
	District     string `json:"district,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	CountryCode  string `json:"countryCode,omitempty"`
	FullName     string `json:"fullName,omitempty"`
	FullAddress  string `json:"fullAddress,omitempty"`
	Phone        string `json:"phone,omitempty"`
	TaxNumber    string `json:"taxNumber,omitempty"`
	TaxOffice    string `json:"taxOffice,omitempty"`
	AddressLines string `json:"addressLines,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
}

// OrderLine is a line of a marketplace order as reported by the API
type OrderLine struct {
	LineID        int64           `json:"id"`
	Quantity      int             `json:"quantity"`
	ProductCode   *int64          `json:"productCode"`
	ProductName   string          `json:"productName"`
	MerchantSKU   string          `json:"merchantSku"`
	Barcode       string          `json:"barcode"`
	ProductSize   string          `json:"productSize,omitempty"`
	ProductColor  string          `json:"productColor,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Discount      decimal.Decimal `json:"discount"`
	Price         decimal.Decimal `json:"price"`
	VatBaseAmount decimal.Decimal `json:"vatBaseAmount"`
	Commission    decimal.Decimal `json:"commission"`
	CurrencyCode  string          `json:"currencyCode"`
	Status        *string         `json:"orderLineItemStatusName"`
}

// Order is one shipment package of a marketplace order.
// Keys the marketplace sends that have no field here are kept in Extra and
// written back out on marshal.
type Order struct {
	PackageID                  int64                `json:"id"`
	OrderNumber                string               `json:"orderNumber"`
	AccountID                  int64                `json:"accountId"`
	Status                     OrderStatus          `json:"status"`
	ShipmentPackageStatus      string               `json:"shipmentPackageStatus,omitempty"`
	OrderDate                  int64                `json:"orderDate"`
	LastModifiedDate           int64                `json:"lastModifiedDate"`
	GrossAmount                decimal.Decimal      `json:"grossAmount"`
	TotalDiscount              decimal.Decimal      `json:"totalDiscount"`
	TotalPrice                 decimal.Decimal      `json:"totalPrice"`
	CurrencyCode               string               `json:"currencyCode"`
	CustomerID                 *int64               `json:"customerId"`
	CustomerFirstName          string               `json:"customerFirstName"`
	CustomerLastName           string               `json:"customerLastName"`
	CustomerEmail              string               `json:"customerEmail"`
	ShipmentAddress            *Address             `json:"shipmentAddress"`
	InvoiceAddress             *Address             `json:"invoiceAddress"`
	CargoTrackingNumber        *int64               `json:"cargoTrackingNumber"`
	CargoTrackingLink          string               `json:"cargoTrackingLink"`
	CargoProviderName          string               `json:"cargoProviderName"`
	DeliveryType               string               `json:"deliveryType"`
	EstimatedDeliveryStartDate int64                `json:"estimatedDeliveryStartDate"`
	EstimatedDeliveryEndDate   int64                `json:"estimatedDeliveryEndDate"`
	AgreedDeliveryDate         int64                `json:"agreedDeliveryDate"`
	FastDelivery               bool                 `json:"fastDelivery"`
	Lines                      []OrderLine          `json:"lines"`
	PackageHistories           []StatusHistoryEntry `json:"packageHistories"`

	Extra map[string]json.RawMessage `json:"-"`
}

type orderAlias Order

// UnmarshalJSON decodes the known fields and keeps the rest in Extra
func (o *Order) UnmarshalJSON(data []byte) error {
	var alias orderAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	extra, err := unknownFields(data, alias)
	if err != nil {
		return err
	}
	*o = Order(alias)
	o.Extra = extra
	return nil
}

// MarshalJSON encodes the known fields followed by Extra
func (o Order) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(orderAlias(o), o.Extra)
}

// LineItem is an order line flattened with its order context, as written to the store
type LineItem struct {
	OrderNumber string `json:"orderNumber"`
	AccountID   int64  `json:"accountId"`
	PackageID   int64  `json:"packageId"`
	OrderLine
	TaskDate int64 `json:"taskDate"`
}

// OrderKey identifies an order within one account
type OrderKey struct {
	OrderNumber string `json:"order_number"`
	AccountID   int64  `json:"account_id"`
}

// OrdersChangedEvent is published when a sync cycle persisted new state
type OrdersChangedEvent struct {
	ID        string     `json:"id"`
	RunID     string     `json:"run_id"`
	Platform  string     `json:"platform"`
	Snapshots int64      `json:"snapshots"`
	LineItems int64      `json:"line_items"`
	Roots     int64      `json:"roots"`
	Orders    []OrderKey `json:"orders,omitempty"`
	ChangedAt time.Time  `json:"changed_at"`
}
