package rows

import (
	"io"

	"golang.org/x/xerrors"

	"go.cubebuild.tech/sortmerge/merge"
	"go.ytsaurus.tech/yt/go/yson"
)

// Writer writes rows into YSON stream.
type Writer struct {
	writer *yson.Writer
	err    error
	rows   int64
}

func NewWriter(w io.Writer, format yson.Format) *Writer {
	return &Writer{
		writer: yson.NewWriterConfig(w, yson.WriterConfig{
			Format: format,
			Kind:   yson.StreamListFragment,
		}),
	}
}

func (w *Writer) Write(p merge.Pair[any, any]) error {
	if w.err != nil {
		return w.err
	}

	w.writer.Any(Row{Key: p.Key, Value: p.Value})
	if err := w.writer.Err(); err != nil {
		w.err = xerrors.Errorf("rows: write row %d: %w", w.rows, err)
		return w.err
	}

	w.rows++
	return nil
}

// Rows returns number of rows written.
func (w *Writer) Rows() int64 {
	return w.rows
}

// Close finishes the stream. It does not close underlying writer.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}

	w.err = w.writer.Finish()
	return w.err
}

// ParseFormat parses YSON format name.
func ParseFormat(name string) (yson.Format, error) {
	switch name {
	case "binary":
		return yson.FormatBinary, nil
	case "text", "":
		return yson.FormatText, nil
	case "pretty":
		return yson.FormatPretty, nil
	default:
		return 0, xerrors.Errorf("rows: unknown format %q", name)
	}
}
