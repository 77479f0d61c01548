package synth

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Strategy,LoadingMode -trimprefix=Strategy -output=strategy_string.go

// Strategy selects how a descriptor becomes a type.
type Strategy int

const (
	// StrategyBinary builds types with reflect.StructOf.
	StrategyBinary Strategy = iota
	// StrategyText renders source and compiles it.
	StrategyText
)

// LoadingMode selects what the text strategy produces.
type LoadingMode int

const (
	// LoadingLive materializes a usable reflect.Type.
	LoadingLive LoadingMode = iota
	// LoadingReflectionOnly keeps only the checked go/types object.
	LoadingReflectionOnly
)

// ParseStrategy parses "binary" or "text", case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	for _, v := range []Strategy{StrategyBinary, StrategyText} {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}
	}

	return 0, fmt.Errorf("unknown strategy %q", s)
}

// ParseLoadingMode parses "live" or "reflectiononly" (also "reflection-only").
func ParseLoadingMode(s string) (LoadingMode, error) {
	s = strings.ReplaceAll(s, "-", "")
	for _, v := range []LoadingMode{LoadingLive, LoadingReflectionOnly} {
		name := strings.TrimPrefix(v.String(), "Loading")
		if strings.EqualFold(s, name) {
			return v, nil
		}
	}

	return 0, fmt.Errorf("unknown loading mode %q", s)
}
