package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/pool"
	stringpool "github.com/ajitpratap0/matresult/pkg/strings"
	"github.com/ajitpratap0/matresult/pkg/types"
)

const (
	ellipsis = "…"
	rowDots  = "·"
)

type align uint8

const (
	alignLeft align = iota
	alignRight
	alignCenter
)

// column is one printed column; source is -1 for the elision column
type column struct {
	source int
	header string
	typ    string
	width  int
	align  align
}

// BoxRenderer renders collections as box-drawn tables
type BoxRenderer struct {
	cfg    Config
	border lipgloss.Border
}

// NewBoxRenderer creates a renderer. Zero NullValue and Border fall back to
// the defaults.
func NewBoxRenderer(cfg Config) *BoxRenderer {
	if cfg.NullValue == "" {
		cfg.NullValue = DefaultConfig().NullValue
	}
	if cfg.Border == "" {
		cfg.Border = BorderNormal
	}
	return &BoxRenderer{cfg: cfg, border: cfg.Border.border()}
}

// Render draws names and the rows of coll as a table
func (r *BoxRenderer) Render(ctx Context, names []string, coll *columnar.Collection) (string, error) {
	if coll == nil || coll.Released() {
		return "", errors.New(errors.ErrorTypeInvalidOperation, "cannot render a released collection")
	}
	if len(names) != coll.ColumnCount() {
		return "", errors.Newf(errors.ErrorTypeValidation,
			"got %d column names for %d columns", len(names), coll.ColumnCount())
	}

	total := coll.Count()
	top, bottom := r.split(total)
	rowIdx := make([]int, 0, top+bottom)
	for i := 0; i < top; i++ {
		rowIdx = append(rowIdx, i)
	}
	for i := total - bottom; i < total; i++ {
		rowIdx = append(rowIdx, i)
	}
	cells := r.cellTexts(coll, rowIdx)

	lts := coll.Types()
	all := make([]column, len(names))
	for j, name := range names {
		c := column{source: j, header: r.truncate(r.sanitize(name)), align: alignLeft}
		if r.cfg.ShowTypes {
			c.typ = r.truncate(lts[j].String())
		}
		if lts[j].IsNumeric() {
			c.align = alignRight
		}
		c.width = max(1, lipgloss.Width(c.header), lipgloss.Width(c.typ))
		for _, row := range cells {
			c.width = max(c.width, lipgloss.Width(row[j]))
		}
		all[j] = c
	}

	limit := r.cfg.MaxWidth
	if limit == 0 {
		limit = ctx.TerminalWidth
	}
	shown := r.fitColumns(all, limit)
	rowsElided := top+bottom < total
	colsElided := countSources(shown) < len(all)

	ctx.logger().Debug("rendering box",
		zap.Int("rows", total),
		zap.Int("rows_shown", top+bottom),
		zap.Int("columns", len(all)),
		zap.Int("width_limit", limit))

	size := stringpool.SizeFor((top + bottom + 4) * tableWidth(shown))
	b := stringpool.GetBuilder(size)
	defer stringpool.PutBuilder(b, size)

	r.writeRule(b, shown, r.border.TopLeft, r.border.MiddleTop, r.border.TopRight, r.border.Top)
	r.writeRow(b, shown, func(c column) (string, align) { return c.header, alignCenter })
	if r.cfg.ShowTypes {
		r.writeRow(b, shown, func(c column) (string, align) { return c.typ, alignCenter })
	}
	r.writeRule(b, shown, r.border.MiddleLeft, r.border.Middle, r.border.MiddleRight, r.border.Top)

	for i, row := range cells {
		if rowsElided && i == top {
			r.writeRow(b, shown, func(column) (string, align) { return rowDots, alignCenter })
		}
		r.writeRow(b, shown, func(c column) (string, align) {
			if c.source < 0 {
				return ellipsis, alignCenter
			}
			return row[c.source], c.align
		})
	}
	if rowsElided && top == len(cells) {
		r.writeRow(b, shown, func(column) (string, align) { return rowDots, alignCenter })
	}
	r.writeRule(b, shown, r.border.BottomLeft, r.border.MiddleBottom, r.border.BottomRight, r.border.Bottom)

	var footer []string
	if rowsElided {
		footer = append(footer, stringpool.Sprintf("%d rows (%d shown)", total, top+bottom))
	}
	if colsElided {
		footer = append(footer, stringpool.Sprintf("%d columns (%d shown)", len(all), countSources(shown)))
	}
	if len(footer) > 0 {
		b.WriteString(strings.Join(footer, "  "))
		_ = b.WriteByte('\n')
	}
	return stringpool.Clone(b.String()), nil
}

// split returns how many rows are printed from the top and from the bottom
func (r *BoxRenderer) split(total int) (top, bottom int) {
	if r.cfg.MaxRows <= 0 || total <= r.cfg.MaxRows {
		return total, 0
	}
	top = (r.cfg.MaxRows + 1) / 2
	return top, r.cfg.MaxRows - top
}

// cellTexts decodes the given ascending row numbers into display texts
func (r *BoxRenderer) cellTexts(coll *columnar.Collection, rowIdx []int) [][]string {
	lts := coll.Types()
	out := make([][]string, 0, len(rowIdx))

	start, k := 0, 0
	for ci := 0; ci < coll.ChunkCount() && k < len(rowIdx); ci++ {
		rec := coll.Chunk(ci)
		n := int(rec.NumRows())
		for k < len(rowIdx) && rowIdx[k] < start+n {
			off := rowIdx[k] - start
			row := make([]string, len(lts))
			for j := range lts {
				v := types.ValueAt(rec.Column(j), off, lts[j])
				if v.IsNull() {
					row[j] = r.truncate(r.cfg.NullValue)
					continue
				}
				row[j] = r.truncate(r.sanitize(v.String()))
			}
			out = append(out, row)
			k++
		}
		start += n
	}
	return out
}

// fitColumns keeps columns from both ends, alternating, until the table would
// exceed limit, and puts an elision column in the middle when any is dropped.
func (r *BoxRenderer) fitColumns(all []column, limit int) []column {
	if limit <= 0 || tableWidth(all) <= limit {
		return all
	}

	elided := column{source: -1, header: ellipsis, width: 1, align: alignCenter}
	used := 1 + elided.width + 3
	var left, right []column
	lo, hi := 0, len(all)-1
	for takeLeft := true; lo <= hi; takeLeft = !takeLeft {
		next := all[lo]
		if !takeLeft {
			next = all[hi]
		}
		if used+next.width+3 > limit {
			break
		}
		used += next.width + 3
		if takeLeft {
			left = append(left, next)
			lo++
		} else {
			right = append(right, next)
			hi--
		}
	}
	if len(left) == 0 {
		// the first column is always printed, even if it overflows
		left = append(left, all[0])
	}
	if len(left)+len(right) >= len(all) {
		return all
	}

	shown := make([]column, 0, len(left)+len(right)+1)
	shown = append(shown, left...)
	shown = append(shown, elided)
	for i := len(right) - 1; i >= 0; i-- {
		shown = append(shown, right[i])
	}
	return shown
}

func (r *BoxRenderer) writeRule(b *stringpool.Builder, cols []column, left, mid, right, fill string) {
	b.WriteString(left)
	for i, c := range cols {
		if i > 0 {
			b.WriteString(mid)
		}
		b.WriteRepeat(fill, c.width+2)
	}
	b.WriteString(right)
	_ = b.WriteByte('\n')
}

func (r *BoxRenderer) writeRow(b *stringpool.Builder, cols []column, cell func(column) (string, align)) {
	scratch := pool.StringSlicePool.Get()
	defer pool.StringSlicePool.Put(scratch)

	for _, c := range cols {
		text, a := cell(c)
		scratch.Items = append(scratch.Items, pad(text, c.width, a))
	}

	b.WriteString(r.border.Left)
	for i, text := range scratch.Items {
		if i > 0 {
			b.WriteString(r.border.Left)
		}
		_ = b.WriteByte(' ')
		b.WriteString(text)
		_ = b.WriteByte(' ')
	}
	b.WriteString(r.border.Right)
	_ = b.WriteByte('\n')
}

func (r *BoxRenderer) sanitize(s string) string {
	s = stringpool.EscapeNUL(s)
	if strings.ContainsAny(s, "\n\r\t") {
		s = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(s)
	}
	return s
}

func (r *BoxRenderer) truncate(s string) string {
	limit := r.cfg.MaxColumnWidth
	if limit <= 0 || lipgloss.Width(s) <= limit {
		return s
	}
	var sb strings.Builder
	w := 0
	for _, ch := range s {
		cw := lipgloss.Width(string(ch))
		if w+cw > limit-1 {
			break
		}
		sb.WriteRune(ch)
		w += cw
	}
	sb.WriteString(ellipsis)
	return sb.String()
}

func pad(s string, width int, a align) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	switch a {
	case alignRight:
		return strings.Repeat(" ", gap) + s
	case alignCenter:
		l := gap / 2
		return strings.Repeat(" ", l) + s + strings.Repeat(" ", gap-l)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

func tableWidth(cols []column) int {
	w := 1
	for _, c := range cols {
		w += c.width + 3
	}
	return w
}

func countSources(cols []column) int {
	n := 0
	for _, c := range cols {
		if c.source >= 0 {
			n++
		}
	}
	return n
}
