// Package confmap decodes YAML and JSON configuration into ordered, generic
// values.
//
// Mappings become *Map, which keeps keys in the order they were authored,
// sequences become []any and scalars become native Go values (int, float64,
// bool, string or nil). The validator compiler relies on that ordering: fields
// and constraints are applied in the order they appear in the file.
//
// # Usage
//
//	v, err := confmap.Decode("validator.yaml", data)
//	if err != nil {
//	    return err
//	}
//	section, ok := v.(*confmap.Map)
//
// Plain Go maps can be lifted with FromMap; their keys are sorted because Go
// maps carry no order.
package confmap
