// Package mapping reads declarative class descriptors and overrides from
// YAML or JSON files.
//
// # Schema Overview
//
//	version: "1"
//	package: example.com/shop        # default package of the classes
//	classes:
//	  - name: Order
//	    parents: [example.com/base.Entity]
//	    annotations: ["example.com/meta.Table{Name: \"orders\"}"]
//	    properties:
//	      - name: Number
//	        type: string
//	        readOnly: true
//	      - name: Lines
//	        type: map[string][]int
//	overrides:
//	  - type: example.com/shop.Customer
//	    replace: example.com/shop.CustomerV2   # optional
//	    properties:
//	      - name: Segment
//	        type: string
//	    propertyAnnotations:
//	      Name: "example.com/meta.Column{Size: 80}"
//	    annotations:
//	      - example.com/meta.Audited{}
//
// Type expressions are qualified Go types; annotations are Go composite
// literals. Annotation lists accept a single string or a sequence.
//
// Override types name entries of a synth.Universe. Catalog turns the
// overrides of a file into mappers for an override.Registry.
package mapping
