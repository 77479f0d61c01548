package node_test

import (
	"fmt"
	"reflect"

	"typeforge/node"
)

func ExampleDealer() {
	var d node.Dealer

	d.Needs(reflect.TypeFor[int](), reflect.TypeFor[string]())
	d.Needs(reflect.TypeFor[int](), reflect.TypeFor[string]())
	fmt.Println("pending:", d.Pending())

	src, dst, ok := d.NextNeeds()
	fmt.Println("dealt:", src, dst, ok)

	d.Needs(reflect.TypeFor[int](), reflect.TypeFor[string]())
	_, _, ok = d.NextNeeds()
	fmt.Println("dealt again:", ok)

	d.Needs(reflect.TypeFor[bool](), reflect.TypeFor[bool]())
	d.Needs(reflect.TypeFor[string](), reflect.TypeFor[string]())

	for src, _, ok := d.NextNeeds(); ok; src, _, ok = d.NextNeeds() {
		fmt.Println("next:", src)
	}

	// Output:
	// pending: 1
	// dealt: int string true
	// dealt again: false
	// next: bool
	// next: string
}
