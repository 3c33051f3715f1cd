package result

import (
	"strconv"

	"github.com/ajitpratap0/matresult/pkg/metrics"
	"github.com/ajitpratap0/matresult/pkg/render"
	stringpool "github.com/ajitpratap0/matresult/pkg/strings"
)

const noCollectionDiagnostic = "Internal error - result was successful but there was no collection"

// ToString renders the result as tab separated text: a line of column names,
// a "[ Rows: N]" line, one line per row and a trailing blank line. NULL cells
// print as NULL and NUL bytes as \0. A failed result renders as its error
// text followed by a newline.
func (r *MaterializedResult) ToString() string {
	timer := r.metrics.StartTimer(metrics.OpToString)
	if !r.success {
		timer.Stop(nil)
		return r.err.Error() + "\n"
	}

	rows, err := r.rowIndex("print")
	if err != nil {
		timer.Stop(err)
		return err.Error() + "\n"
	}

	size := stringpool.SizeFor(rows.Count() * rows.ColumnCount() * 8)
	b := stringpool.GetBuilder(size)
	defer stringpool.PutBuilder(b, size)

	for i, name := range r.names {
		if i > 0 {
			_ = b.WriteByte('\t')
		}
		b.WriteString(name)
	}
	b.WriteString("\n[ Rows: ")
	b.WriteString(strconv.Itoa(rows.Count()))
	b.WriteString("]\n")

	for i := 0; i < rows.Count(); i++ {
		row := rows.Row(i)
		for j := 0; j < rows.ColumnCount(); j++ {
			if j > 0 {
				_ = b.WriteByte('\t')
			}
			b.WriteString(stringpool.EscapeNUL(row.GetValue(j).String()))
		}
		_ = b.WriteByte('\n')
	}
	_ = b.WriteByte('\n')

	timer.Stop(nil)
	return stringpool.Clone(b.String())
}

// ToBox renders the result as a box-drawn table. A failed result renders as
// its error text followed by a newline. A successful result without a
// collection renders a diagnostic line instead of failing.
func (r *MaterializedResult) ToBox(ctx render.Context, cfg render.Config) string {
	timer := r.metrics.StartTimer(metrics.OpToBox)
	if !r.success {
		timer.Stop(nil)
		return r.err.Error() + "\n"
	}
	if r.coll == nil {
		timer.Stop(nil)
		return noCollectionDiagnostic
	}

	if ctx.Logger == nil {
		ctx.Logger = r.log
	}
	out, err := render.NewBoxRenderer(cfg).Render(ctx, r.names, r.coll)
	timer.Stop(err)
	if err != nil {
		return err.Error() + "\n"
	}
	return out
}
