// Package inventory defines the goods-availability document stockboard displays.
//
// # Document Shape
//
// The remote source serves a single JSON object:
//
//	{
//	  "products":    ["X", "Y"],
//	  "stores":      [{"name": "S", "status": {"X": "販売中"}}],
//	  "lastUpdated": "2024-01-01"
//	}
//
// Product order is the column order on screen and is preserved as delivered.
// A store's status map may omit products; StatusOf reports that case so the
// table can render it as unknown rather than failing.
//
// # Status Tags
//
// Status is an opaque string. Three tags are styled explicitly (InStock,
// SoldOut, PreSale). Anything else decodes fine and is shown verbatim.
//
// # Validation
//
// Decode checks the body against an embedded JSON Schema before unmarshalling,
// so a document with the wrong structure (a missing field, a number where a
// string belongs) is rejected as a DecodeError instead of yielding a partially
// zero-valued Snapshot.
package inventory
