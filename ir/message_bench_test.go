package ir_test

import (
	"testing"

	"github.com/arloliu/clpir/internal/irtest"
	"github.com/arloliu/clpir/ir"
)

func BenchmarkDecodeNextMessage(b *testing.B) {
	pi, _ := irtest.EncodeFloat("3.14")
	data := irtest.NewBuilder().Record(irtest.Record{
		Logtype:     " user \x12 took \x11 ms, ratio \x13\n",
		DictVars:    []string{"alice@example.com"},
		EncodedVars: []int32{1500, pi},
		Delta:       250,
	}).Bytes()

	b.Run("Decode", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			if _, _, err := ir.DecodeNextMessage(data); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("DecodeAndExpand", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			msg, _, err := ir.DecodeNextMessage(data)
			if err != nil {
				b.Fatal(err)
			}
			if _, err := msg.Decode(); err != nil {
				b.Fatal(err)
			}
		}
	})
}
