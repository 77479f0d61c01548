package node

import "strconv"

type DispatcherEnum int

const (
	DispatcherUnknown DispatcherEnum = iota
	DispatcherPrimitive
	DispatcherInterface
	DispatcherSlice
	DispatcherMap
	DispatcherStruct

	// DispatcherTotal is a constant that represents the total number of kinds defined
	DispatcherTotal = int(iota)
)

var dispatcherNames = [...]string{"unknown", "primitive", "interface", "slice", "map", "struct"}

func (d DispatcherEnum) String() string {
	if d < 0 || int(d) >= DispatcherTotal {
		return "DispatcherEnum(" + strconv.Itoa(int(d)) + ")"
	}

	return dispatcherNames[d]
}
