package compiler

import (
	"fmt"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Loaded is generated Go code running inside the yaegi interpreter.
type Loaded struct {
	Step   func() int
	Eval   func()
	Values func() map[string]int
}

// LoadGo interprets Go source produced by a GoTarget with Debug enabled and
// returns its exported functions. Each call gets a fresh interpreter, so
// loaded programs never share state.
func LoadGo(src []byte, pkg string) (*Loaded, error) {
	if pkg == "" {
		pkg = DefaultPackage
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	if _, err := i.Eval(string(src)); err != nil {
		return nil, fmt.Errorf("generated code evaluation failed: %w", err)
	}

	var l Loaded
	if err := lookup(i, pkg+".Step", &l.Step); err != nil {
		return nil, err
	}
	if err := lookup(i, pkg+".Eval", &l.Eval); err != nil {
		return nil, err
	}
	if err := lookup(i, pkg+".Values", &l.Values); err != nil {
		return nil, fmt.Errorf("%w (compile with Debug)", err)
	}
	return &l, nil
}

func lookup[F any](i *interp.Interpreter, name string, dst *F) error {
	v, err := i.Eval(name)
	if err != nil {
		return fmt.Errorf("%s not found: %w", name, err)
	}
	fn, ok := v.Interface().(F)
	if !ok {
		return fmt.Errorf("%s has unexpected type %s", name, v.Type())
	}
	*dst = fn
	return nil
}

// RunGo loads src, drains Eval and returns the final value of every symbol.
func RunGo(src []byte, pkg string) (map[string]int, error) {
	l, err := LoadGo(src, pkg)
	if err != nil {
		return nil, err
	}
	l.Eval()
	return l.Values(), nil
}
