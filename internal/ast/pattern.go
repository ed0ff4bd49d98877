package ast

import (
	"fmt"
	"strings"
)

// Pattern is the closed sum of match-arm patterns.
type Pattern interface {
	patternNode()
	Position() Pos
	String() string
}

// WildcardPattern matches any value and binds nothing.
type WildcardPattern struct {
	Pos Pos
}

func (*WildcardPattern) patternNode()     {}
func (w *WildcardPattern) Position() Pos  { return w.Pos }
func (w *WildcardPattern) String() string { return "_" }

// VarPattern matches any value and binds it to Name in the arm body.
type VarPattern struct {
	Name string
	Pos  Pos
}

func (*VarPattern) patternNode()     {}
func (v *VarPattern) Position() Pos  { return v.Pos }
func (v *VarPattern) String() string { return v.Name }

// LiteralPattern matches a constant value exactly.
type LiteralPattern struct {
	Value Literal
	Pos   Pos
}

func (*LiteralPattern) patternNode()     {}
func (l *LiteralPattern) Position() Pos  { return l.Pos }
func (l *LiteralPattern) String() string { return l.Value.String() }

// ConstructorPattern matches a specific data-type variant, recursively
// binding its sub-patterns.
type ConstructorPattern struct {
	Constructor string
	SubPatterns []Pattern
	Pos         Pos
}

func (*ConstructorPattern) patternNode()    {}
func (c *ConstructorPattern) Position() Pos { return c.Pos }
func (c *ConstructorPattern) String() string {
	if len(c.SubPatterns) == 0 {
		return c.Constructor
	}
	parts := make([]string, len(c.SubPatterns))
	for i, p := range c.SubPatterns {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", c.Constructor, strings.Join(parts, ", "))
}
