package transformer

import (
	"strings"

	"github.com/goliatone/go-richdoc/internal/document"
)

// walker holds the bookkeeping of one render call.
type walker struct {
	t       *Transformer
	escaper TextEscaper
	vocab   Vocabulary
	counts  map[warningKey]int
	order   []warningKey
}

type warningKey struct {
	kind WarningType
	tag  string
}

func newWalker(t *Transformer) *walker {
	w := &walker{t: t}
	if escaper, ok := t.rules.(TextEscaper); ok {
		w.escaper = escaper
	}
	if vocab, ok := t.rules.(Vocabulary); ok {
		w.vocab = vocab
	}
	return w
}

// node renders children bottom-up, then hands the concatenation to the
// block hook. Children of list containers are joined with one newline.
func (w *walker) node(n *document.Node) string {
	if n.IsText() {
		return w.text(n)
	}

	var b strings.Builder
	_, isList := w.t.listTypes[n.Type]
	for i, child := range n.Content {
		if isList && i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(w.node(child))
	}

	if w.vocab != nil && !w.vocab.HasBlock(n.Type) {
		w.record(WarningUnknownNode, n.Type)
	}
	return w.t.rules.Block(n.Type, n.Attrs, b.String())
}

// text applies marks in declared order, each wrapping the previous result.
func (w *walker) text(n *document.Node) string {
	out := n.Text
	if w.escaper != nil {
		out = w.escaper.Text(out)
	}
	for _, mark := range n.Marks {
		if w.vocab != nil && !w.vocab.HasInline(mark.Type) {
			w.record(WarningUnknownMark, mark.Type)
		}
		out = w.t.rules.Inline(mark.Type, mark.Attrs, out)
	}
	return out
}

func (w *walker) record(kind WarningType, tag string) {
	key := warningKey{kind: kind, tag: tag}
	if w.counts == nil {
		w.counts = make(map[warningKey]int)
	}
	if _, ok := w.counts[key]; !ok {
		w.order = append(w.order, key)
	}
	w.counts[key]++
}

func (w *walker) warnings() []Warning {
	if len(w.order) == 0 {
		return nil
	}
	out := make([]Warning, 0, len(w.order))
	for _, key := range w.order {
		out = append(out, Warning{
			Type:  key.kind,
			Tag:   key.tag,
			Count: w.counts[key],
		})
	}
	return out
}
