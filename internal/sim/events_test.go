package sim

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/rocketsim/internal/dynamo"
)

func at(alt float64) dynamo.State {
	return dynamo.State{Pos: mgl64.Vec3{0, 0, alt}, Att: mgl64.QuatIdent()}
}

var _ = Describe("AltitudeDetector", func() {
	It("fires on the first crossing only", func() {
		d := NewAltitudeDetector(100)

		_, ok := d.Detect(at(50), at(90))
		Expect(ok).To(BeFalse())

		e, ok := d.Detect(at(90), at(110))
		Expect(ok).To(BeTrue())
		Expect(e.Kind).To(Equal(EventAltitude))
		Expect(e.Label).To(Equal("100m"))

		_, ok = d.Detect(at(110), at(90))
		Expect(ok).To(BeFalse())

		d.Reset()
		_, ok = d.Detect(at(110), at(90))
		Expect(ok).To(BeTrue())
	})
})

var _ = Describe("EventKind", func() {
	It("round-trips through its name", func() {
		for _, k := range []EventKind{EventLiftoff, EventBurnout, EventStaging, EventApogee, EventLanding, EventAltitude} {
			parsed, err := ParseEventKind(k.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(k))
		}
		_, err := ParseEventKind("MECO")
		Expect(err).To(HaveOccurred())
	})

	It("encodes as a name in JSON", func() {
		data, err := json.Marshal(Event{Kind: EventApogee, Time: 12.5})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"kind":"APOGEE"`))

		var e Event
		Expect(json.Unmarshal(data, &e)).To(Succeed())
		Expect(e.Kind).To(Equal(EventApogee))
	})
})
