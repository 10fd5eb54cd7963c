package usetlib

import (
	"fmt"
	"strings"
)

type nodeType int

const (
	nLiteral  nodeType = iota // single codepoint
	nRange                    // lo-hi, inclusive
	nString                   // {multi codepoint} member
	nProperty                 // \p{...}, \P{...}, [:...:]
	nSet                      // [ ... ], children alternate operand/operator
	nOp                       // operator between operands inside a set
)

type opKind int

const (
	opUnion      opKind = iota // implicit, between adjacent operands
	opIntersect                // &
	opDifference               // -
)

// propCategoryOrScript marks a property reference without an explicit type
// ([:Lu:], \p{arabic}); the resolver tries categories, scripts and boolean
// properties in turn.
const propCategoryOrScript = ""

// Node is one element of the parsed pattern. Nodes are immutable once the
// parser returns; a single tagged struct carries all variants, the way
// regex AST nodes usually do.
type Node struct {
	typ nodeType

	ch     rune    // nLiteral
	lo, hi rune    // nRange
	str    []rune  // nString, at least two codepoints
	kids   []*Node // nSet
	neg    bool    // nSet, nProperty
	op     opKind  // nOp

	propType  string // nProperty; propCategoryOrScript when no type given
	propValue string // nProperty

	pos int // byte offset in the source pattern
}

func litNode(r rune, pos int) *Node { return &Node{typ: nLiteral, ch: r, pos: pos} }

func rangeNode(lo, hi rune, pos int) *Node { return &Node{typ: nRange, lo: lo, hi: hi, pos: pos} }

// stringNode collapses a length-one member to a plain literal.
func stringNode(s []rune, pos int) *Node {
	if len(s) == 1 {
		return litNode(s[0], pos)
	}
	return &Node{typ: nString, str: s, pos: pos}
}

func opNode(k opKind, pos int) *Node { return &Node{typ: nOp, op: k, pos: pos} }

// isSetOperand reports whether the node may sit beside & or -.
func (n *Node) isSetOperand() bool {
	return n != nil && (n.typ == nSet || n.typ == nProperty)
}

// String renders the node as an s-expression, for debugging and the CLI
// parse dump.
func (n *Node) String() string {
	switch n.typ {
	case nLiteral:
		return fmt.Sprintf("U+%04X", n.ch)
	case nRange:
		return fmt.Sprintf("U+%04X-U+%04X", n.lo, n.hi)
	case nString:
		return fmt.Sprintf("{%s}", string(n.str))
	case nProperty:
		mark := ""
		if n.neg {
			mark = "^"
		}
		if n.propType == propCategoryOrScript {
			return fmt.Sprintf("(prop %s%s)", mark, n.propValue)
		}
		return fmt.Sprintf("(prop %s%s=%s)", mark, n.propType, n.propValue)
	case nSet:
		var b strings.Builder
		b.WriteString("(set")
		if n.neg {
			b.WriteString(" ^")
		}
		for _, kid := range n.kids {
			b.WriteByte(' ')
			b.WriteString(kid.String())
		}
		b.WriteByte(')')
		return b.String()
	case nOp:
		return opName(n.op)
	default:
		return "?"
	}
}
