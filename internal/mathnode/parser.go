package mathnode

import (
	"errors"
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/g5becks/groupnames/internal/markup"
)

// DefaultMaxDepth bounds element nesting before the parser stops descending.
const DefaultMaxDepth = 256

// ErrNilElement is the parser's only failure: it was handed no element at all.
var ErrNilElement = errors.New("nil markup element")

// Reason names a soft degradation site.
type Reason string

const (
	ReasonMissingNumerator   Reason = "missing_numerator"
	ReasonMissingDenominator Reason = "missing_denominator"
	ReasonDepthExceeded      Reason = "depth_exceeded"
)

// Degradation records where the parser substituted a best-effort node.
type Degradation struct {
	Path   string `json:"path"`
	Reason Reason `json:"reason"`
}

func (d Degradation) String() string {
	return string(d.Reason) + " at " + d.Path
}

// Result is a best-effort tree plus the degradations made while building it.
// A non-empty Degradations list is the partial-parse signal.
type Result struct {
	Node         Node          `json:"node"`
	Degradations []Degradation `json:"degradations,omitempty"`
}

func (r *Result) Partial() bool {
	return len(r.Degradations) > 0
}

type Options struct {
	// MaxDepth limits element nesting; 0 means DefaultMaxDepth. An element nested
	// deeper is replaced by its trimmed text and reported as ReasonDepthExceeded.
	MaxDepth int
}

// Parser is stateless after construction and safe for concurrent use.
type Parser struct {
	maxDepth int
}

func New(opts Options) *Parser {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{maxDepth: maxDepth}
}

// ParseElement parses a single element into a canonical tree.
func ParseElement(el markup.Element) (Node, error) {
	return New(Options{}).ParseElement(el)
}

// ParseFragment parses the children of a container, one node per non-blank child.
func ParseFragment(el markup.Element) ([]Node, error) {
	return New(Options{}).ParseFragment(el)
}

func (p *Parser) ParseElement(el markup.Element) (Node, error) {
	result, err := p.Parse(el)
	if err != nil {
		return nil, err
	}
	return result.Node, nil
}

func (p *Parser) ParseFragment(el markup.Element) ([]Node, error) {
	if el == nil {
		return nil, nilElementError()
	}

	w := &walk{maxDepth: p.maxDepth}
	return w.fragment(el, rootFrame(el)), nil
}

// Parse parses a single element and reports degradations.
func (p *Parser) Parse(el markup.Element) (*Result, error) {
	if el == nil {
		return nil, nilElementError()
	}

	w := &walk{maxDepth: p.maxDepth}
	node := w.element(el, rootFrame(el))
	return &Result{Node: node, Degradations: w.degradations}, nil
}

// ParseContents parses a container (for example a table cell) into one node: its
// child sequence wrapped under the container's tag.
func (p *Parser) ParseContents(el markup.Element) (*Result, error) {
	if el == nil {
		return nil, nilElementError()
	}

	w := &walk{maxDepth: p.maxDepth}
	node := w.contents(el, rootFrame(el))
	return &Result{Node: node, Degradations: w.degradations}, nil
}

func nilElementError() error {
	return oops.
		Code("INVALID_INPUT").
		Hint("Extract a markup element before parsing").
		Wrap(ErrNilElement)
}

// frame is the position of the element being parsed, passed down explicitly.
type frame struct {
	path  string
	depth int
}

func rootFrame(el markup.Element) frame {
	return frame{path: "/" + strings.ToLower(el.Tag())}
}

func (f frame) child(tag string, index int) frame {
	return frame{
		path:  f.path + "/" + strings.ToLower(tag) + "[" + strconv.Itoa(index) + "]",
		depth: f.depth + 1,
	}
}

func (f frame) descendant(tag string) frame {
	return frame{
		path:  f.path + "//" + tag,
		depth: f.depth + 1,
	}
}

// walk accumulates degradations for a single parse call.
type walk struct {
	maxDepth     int
	degradations []Degradation
}

func (w *walk) degrade(f frame, reason Reason) {
	w.degradations = append(w.degradations, Degradation{Path: f.path, Reason: reason})
}

func (w *walk) element(el markup.Element, f frame) Node {
	if f.depth > w.maxDepth {
		w.degrade(f, ReasonDepthExceeded)
		return Text{Value: strings.TrimSpace(el.Text())}
	}

	switch Classify(el) {
	case ElementFraction:
		return w.fraction(el, f)
	case ElementRadical:
		return w.radical(el, f)
	case ElementSubscript:
		return Sub{Value: w.contents(el, f)}
	case ElementSuperscript:
		return Sup{Value: w.contents(el, f)}
	default:
		return w.contents(el, f)
	}
}

func (w *walk) contents(el markup.Element, f frame) Node {
	return Wrap(w.fragment(el, f), strings.ToLower(el.Tag()))
}

func (w *walk) fragment(el markup.Element, f frame) []Node {
	var nodes []Node
	for i, child := range el.Children() {
		if child.IsText() {
			if text := strings.TrimSpace(child.Text); text != "" {
				nodes = append(nodes, Text{Value: text})
			}
			continue
		}
		nodes = append(nodes, w.element(child.Element, f.child(child.Element.Tag(), i)))
	}
	return nodes
}

func (w *walk) fraction(el markup.Element, f frame) Node {
	var numerator, denominator Node = Text{}, Text{}

	if sup, ok := el.FirstDescendant(SuperscriptTag); ok {
		numerator = w.element(sup, f.descendant(SuperscriptTag))
	} else {
		w.degrade(f, ReasonMissingNumerator)
	}

	if sub, ok := el.FirstDescendant(SubscriptTag); ok {
		denominator = w.element(sub, f.descendant(SubscriptTag))
	} else {
		w.degrade(f, ReasonMissingDenominator)
	}

	return Fraction{Numerator: numerator, Denominator: denominator}
}

// radical keeps the glyph in the tree; Render drops it.
func (w *walk) radical(el markup.Element, f frame) Node {
	if len(el.Children()) == 0 {
		return Sqrt{Value: Text{Value: strings.TrimSpace(el.Text())}}
	}
	return Sqrt{Value: w.contents(el, f)}
}
