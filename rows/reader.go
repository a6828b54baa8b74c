// Package rows reads and writes key/value rows encoded as YSON list fragment.
//
//	{key=1;value=a;};
//	{key=1;value=b;};
//	{key=2;value=c;};
package rows

import (
	"io"

	"golang.org/x/xerrors"

	"go.cubebuild.tech/sortmerge/merge"
	"go.ytsaurus.tech/yt/go/yson"
)

// Row is a single row of the stream.
type Row struct {
	Key   any `yson:"key"`
	Value any `yson:"value"`
}

// Reader is merge.Iterator over rows of YSON stream.
//
// Reader decodes at most one row ahead of the caller.
type Reader struct {
	reader *yson.Reader

	eof      bool
	err      error
	reported bool

	hasRow   bool
	row      Row
	rowIndex int64
}

var _ merge.Iterator[any, any] = (*Reader)(nil)

func NewReader(r io.Reader) *Reader {
	return &Reader{reader: yson.NewReaderKind(r, yson.StreamListFragment)}
}

func (r *Reader) fill() {
	if r.hasRow || r.eof || r.err != nil {
		return
	}

	ok, err := r.reader.NextListItem()
	if err != nil {
		r.err = xerrors.Errorf("rows: row %d: %w", r.rowIndex, err)
		return
	}

	if !ok {
		r.eof = true
		return
	}

	r.row = Row{}
	d := yson.Decoder{R: r.reader}
	if err := d.Decode(&r.row); err != nil {
		r.err = xerrors.Errorf("rows: decode row %d: %w", r.rowIndex, err)
		return
	}

	r.hasRow = true
}

func (r *Reader) HasNext() bool {
	r.fill()
	return r.hasRow || (r.err != nil && !r.reported)
}

// Next returns next row. Decoding error is returned once; after that the reader is exhausted.
func (r *Reader) Next() (p merge.Pair[any, any], err error) {
	r.fill()

	switch {
	case r.hasRow:
		p = merge.Pair[any, any]{Key: r.row.Key, Value: r.row.Value}
		r.hasRow = false
		r.row = Row{}
		r.rowIndex++
	case r.err != nil && !r.reported:
		r.reported = true
		err = r.err
	default:
		err = merge.ErrExhausted
	}
	return
}

func (r *Reader) Remove() error {
	return merge.ErrUnsupported
}

// RowIndex returns number of rows returned so far.
func (r *Reader) RowIndex() int64 {
	return r.rowIndex
}

// Err returns decoding error, if any.
func (r *Reader) Err() error {
	return r.err
}
