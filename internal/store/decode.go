package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

var (
	// SnapshotRenames maps marketplace order keys onto order_snapshots fields
	SnapshotRenames = map[string]string{
		"id":           "packageId",
		"3pByTrendyol": "thirdPartyFulfilled",
	}

	// LineItemRenames maps marketplace line keys onto order_line_items fields
	LineItemRenames = map[string]string{
		"id": "lineId",
	}
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	jsonType    = reflect.TypeOf(datatypes.JSON{})
)

// DecodeReport describes what DecodeRecords discarded
type DecodeReport struct {
	// Dropped counts the occurrences of each key that has no destination field
	Dropped map[string]int
	// Failed is the number of records that could not be decoded at all
	Failed int
}

// DroppedFields returns the dropped keys in sorted order
func (r DecodeReport) DroppedFields() []string {
	fields := make([]string, 0, len(r.Dropped))
	for k := range r.Dropped {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// DecodeRecords converts loosely typed wire records into models of type T.
// Keys are renamed first, then matched against the json tags of T; keys without a
// destination are dropped and reported. A record that cannot be decoded is skipped.
func DecodeRecords[T any](records []map[string]any, renames map[string]string) ([]T, DecodeReport) {
	report := DecodeReport{Dropped: make(map[string]int)}
	out := make([]T, 0, len(records))

	for i, record := range records {
		var row T
		var md mapstructure.Metadata

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Metadata:         &md,
			Result:           &row,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				decimalHook,
				jsonColumnHook,
			),
		})
		if err != nil {
			// Only reachable with an invalid Result, which is a programming error
			panic(fmt.Sprintf("failed to create decoder: %v", err))
		}

		if err := decoder.Decode(renameKeys(record, renames)); err != nil {
			logger.Warn("Failed to decode record, skipping",
				zap.Error(err),
				zap.Int("index", i),
				zap.String("type", reflect.TypeOf(row).Name()))
			report.Failed++
			continue
		}

		for _, key := range md.Unused {
			report.Dropped[key]++
		}
		out = append(out, row)
	}

	return out, report
}

// renameKeys returns a copy of record with the rename table applied
func renameKeys(record map[string]any, renames map[string]string) map[string]any {
	renamed := make(map[string]any, len(record))
	for k, v := range record {
		if to, ok := renames[k]; ok {
			k = to
		}
		renamed[k] = v
	}
	return renamed
}

// decimalHook converts wire numbers and numeric strings into decimal.Decimal
func decimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}

	switch v := data.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		if v == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return data, nil
	}
}

// jsonColumnHook encodes nested objects and lists for JSON columns
func jsonColumnHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != jsonType {
		return data, nil
	}

	switch from.Kind() {
	case reflect.Map, reflect.Slice, reflect.Struct:
		if _, ok := data.(datatypes.JSON); ok {
			return data, nil
		}
		if raw, ok := data.(json.RawMessage); ok {
			return datatypes.JSON(raw), nil
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(encoded), nil
	default:
		return data, nil
	}
}
