package decoder

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/arloliu/clpir/internal/irtest"
	"github.com/arloliu/clpir/query"
)

func benchmarkStream(records int) []byte {
	b := chicagoStream()
	for i := range records {
		b.Record(irtest.Record{
			Logtype:     " INFO request \x12 served in \x11 ms\n",
			DictVars:    []string{"/api/v1/items"},
			EncodedVars: []int32{int32(i % 500)},
			Delta:       7,
		})
	}

	return b.EndOfStream().Bytes()
}

func BenchmarkDecoder_DecodeNext(b *testing.B) {
	data := benchmarkStream(10000)

	inRange, _ := query.New(query.WithUpperBound(chicagoRefTimestamp + 35000))
	wildcard, _ := query.New(query.WithWildcard("*served in 42 ms*", true))

	cases := []struct {
		name string
		q    *query.Query
	}{
		{"NoQuery", nil},
		{"TimeRange", inRange},
		{"Wildcard", wildcard},
	}

	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()

			for b.Loop() {
				d := NewDecoder(NewBuffer(bytes.NewReader(data), 0, false))
				for {
					if _, err := d.DecodeNext(c.q); err != nil {
						if !errors.Is(err, io.EOF) {
							b.Fatal(err)
						}

						break
					}
				}
				d.Release()
			}
		})
	}
}
