package sweep_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/isingsim/internal/ising"
	"github.com/san-kum/isingsim/internal/sweep"
)

var _ = Describe("Temperatures", func() {
	It("includes both ends of the reference sweep", func() {
		temps, err := sweep.Temperatures(0.2, 6.0, 0.2)
		Expect(err).NotTo(HaveOccurred())
		Expect(temps).To(HaveLen(30))
		Expect(temps[0]).To(Equal(0.2))
		Expect(temps[29]).To(Equal(6.0))
		for i := 1; i < len(temps); i++ {
			Expect(temps[i] - temps[i-1]).To(BeNumerically("~", 0.2, 1e-9))
		}
	})

	It("accepts a grid at the point limit", func() {
		temps, err := sweep.Temperatures(1, 1+float64(sweep.MaxTemperatures-1)*0.5, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(temps).To(HaveLen(sweep.MaxTemperatures))
	})

	It("returns a single point when start equals end", func() {
		temps, err := sweep.Temperatures(2.5, 2.5, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(temps).To(Equal([]float64{2.5}))
	})

	It("stops before an end that is not on the grid", func() {
		temps, err := sweep.Temperatures(1, 2.05, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(temps).To(Equal([]float64{1, 1.5, 2}))
	})

	DescribeTable("rejects sweeps that cannot be enumerated",
		func(start, end, step float64, want error) {
			_, err := sweep.Temperatures(start, end, step)
			Expect(err).To(MatchError(want))
		},
		Entry("zero start", 0.0, 1.0, 0.1, ising.ErrInvalidTemperature),
		Entry("negative start", -1.0, 1.0, 0.1, ising.ErrInvalidTemperature),
		Entry("zero step", 1.0, 2.0, 0.0, ising.ErrInvalidSweep),
		Entry("negative step", 1.0, 2.0, -0.1, ising.ErrInvalidSweep),
		Entry("end below start", 2.0, 1.0, 0.1, ising.ErrInvalidSweep),
		Entry("grid too large to allocate", 0.1, 1e10, 1e-10, ising.ErrInvalidSweep),
		Entry("grid just over the point limit", 1.0, 1.0+float64(sweep.MaxTemperatures)*0.5, 0.5, ising.ErrInvalidSweep),
	)
})
