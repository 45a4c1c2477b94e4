package events

import (
	"strconv"
	"testing"
)

func BenchmarkPublishSingleSubscriber(b *testing.B) {
	d := NewDispatcher(nil)
	var c int
	d.MustSubscribe(CategoryUI, func(Event) error { c++; return nil })
	e := DeathCountChange(1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = d.Publish(e)
	}
}

func BenchmarkPublishManySubscribers(b *testing.B) {
	for _, subs := range []int{1, 4, 16, 64, 256} {
		b.Run("subs="+strconv.Itoa(subs), func(b *testing.B) {
			d := NewDispatcher(nil)
			var c int
			for i := 0; i < subs; i++ {
				d.MustSubscribe(CategoryUI, func(Event) error { c++; return nil })
			}
			e := DeathCountChange(1)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = d.Publish(e)
			}
		})
	}
}
