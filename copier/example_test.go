package copier_test

import (
	"fmt"

	"typeforge/copier"
	"typeforge/options"
)

func ExampleCopy() {
	type Order struct {
		ID       int
		Quantity string
		Comment  *string
	}

	type OrderView struct {
		ID       string
		Quantity int
		Comment  *string
	}

	comment := "fragile"
	view := OrderView{Comment: &comment}

	_ = copier.Copy(Order{ID: 7, Quantity: "3"}, &view, options.WithSkipNulls())
	fmt.Println(view.ID, view.Quantity, *view.Comment)

	// Output:
	// 7 3 fragile
}
