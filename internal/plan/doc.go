// Package plan loads run plans.
//
// A plan names the units to run and how to report them. Plans are written
// in YAML or CUE:
//
//	name: smoke
//	units:
//	  - app.FileTest
//	  - app.CacheTest
//	check_required: false
//	store: .unitgate/history.db
//	format: json
//
// YAML plans are decoded strictly: unknown fields are errors. CUE plans
// are unified with a closed schema, so the same typos fail there too.
package plan
