package sim

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/rocketsim/internal/control"
	"github.com/san-kum/rocketsim/internal/dynamo"
)

var _ = Describe("Batch", func() {
	It("runs independent flights concurrently and keeps their order", func() {
		m := pathfinder()
		reg := control.NewRegistry()

		b := NewBatch()
		for _, name := range reg.Names() {
			ctrl, err := reg.Get(name, m)
			Expect(err).NotTo(HaveOccurred())
			b.Add(New(m, ctrl))
		}
		Expect(b.Len()).To(Equal(3))

		cfg := dynamo.DefaultConfig()
		cfg.MaxTime = 10
		results, err := b.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		Expect(results[0].Controller).To(Equal("BangBang"))
		Expect(results[1].Controller).To(Equal("TVCController"))
		Expect(results[2].Controller).To(Equal("Zero"))
		for _, r := range results {
			Expect(r.Outcome).To(Equal(OutcomeTimeLimit))
		}
	})

	It("rejects an invalid config before starting", func() {
		_, err := NewBatch(New(pathfinder(), control.NewZero())).Run(context.Background(), dynamo.Config{})
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})
})
