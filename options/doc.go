// Package options models the space of compile-time feature flags a build can
// be varied over.
//
// An option is one of three kinds:
//
//   - Unary: takes effect through presence only (-DNAME)
//   - Enumerated: one value out of a declared list (-DNAME=value)
//   - Ranged: an integer stepping from min to max inclusive
//
// Specs are declared in JSON under the "compile-options" key:
//
//	{
//	  "compile-options": {
//	    "SQLITE_OMIT_WAL": null,
//	    "SQLITE_TEMP_STORE": {"type": "list", "default": 1, "values": [0, 1, 2, 3]},
//	    "SQLITE_MAX_WORKER_THREADS": {"type": "range", "min": 0, "max": 8, "step": 2, "default": 0}
//	  }
//	}
//
// or in HCL with one "option" block per entry (see ParseHCL). Entries that
// cannot be understood are dropped and reported as Diagnostics; a bad entry
// never fails the whole document.
//
// A Configuration is a concrete choice of settings for a subset of the space.
package options
