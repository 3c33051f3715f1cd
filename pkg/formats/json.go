package formats

import (
	"io"

	"github.com/ajitpratap0/matresult/pkg/compression"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/json"
	"github.com/ajitpratap0/matresult/pkg/result"
	"github.com/ajitpratap0/matresult/pkg/variant"
)

// WriteJSON writes one JSON object per row, keyed by column name in column
// order. The output is an array unless opts.JSONLines is set.
func WriteJSON(w io.Writer, res *result.MaterializedResult, opts WriteOptions) error {
	if _, err := collectionOf(res); err != nil {
		return err
	}
	rows, err := res.Export()
	if err != nil {
		return err
	}

	cw, err := compression.NewWriter(w, opts.Compression, opts.Level)
	if err != nil {
		return err
	}
	enc := json.NewStreamingEncoder(cw, !opts.JSONLines)
	if opts.Indent != "" {
		enc.SetIndent(opts.Indent)
	}

	names := res.Names()
	for i, row := range rows {
		if err := enc.Encode(variant.Row(names, row)); err != nil {
			_ = enc.Close()
			_ = cw.Close()
			return errors.Wrap(err, errors.ErrorTypeFormat, "failed to encode row").WithDetail("row", i)
		}
	}
	if err := enc.Close(); err != nil {
		_ = cw.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish JSON output")
	}
	if err := cw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush compressed output")
	}
	return nil
}
