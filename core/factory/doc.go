// Package factory instantiates pluggable modules, such as metrics sinks,
// from configuration entries of the form
//
//	sinks:
//	  - type: influx
//	    conf:
//	      url: http://localhost:8086
//
// A Registry maps type names to constructors. Constructors decode their raw
// settings with Decode, which honours json tags, accepts the string values
// produced by environment overrides and rejects unknown keys.
package factory
