package store_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hyperstellar/internal/store"
	"github.com/san-kum/hyperstellar/internal/world"
)

func specAt(x, y float64) world.ObjectSpec {
	spec := world.DefaultObjectSpec()
	spec.X = x
	spec.Y = y
	return spec
}

var _ = Describe("Store", func() {
	var st *store.Store

	BeforeEach(func() {
		st = store.New(0)
	})

	Describe("Add", func() {
		It("assigns dense ascending indices", func() {
			for i := 0; i < 5; i++ {
				idx, err := st.Add(specAt(float64(i), 0))
				Expect(err).NotTo(HaveOccurred())
				Expect(idx).To(Equal(i))
			}
			Expect(st.Count()).To(Equal(5))
		})

		It("applies the circle shape from its size", func() {
			spec := world.DefaultObjectSpec()
			spec.Size = 2
			idx, _ := st.Add(spec)

			rec, err := st.Get(idx)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Skin).To(Equal(world.SkinCircle))
			Expect(rec.Radius).To(Equal(2.0))
			Expect(rec.Width).To(Equal(4.0))
		})

		It("clamps polygon sides to the supported range", func() {
			spec := world.DefaultObjectSpec()
			spec.Skin = world.SkinPolygon
			spec.Sides = 100
			idx, _ := st.Add(spec)

			rec, _ := st.Get(idx)
			Expect(rec.Sides).To(Equal(12))

			spec.Sides = 1
			idx, _ = st.Add(spec)
			rec, _ = st.Get(idx)
			Expect(rec.Sides).To(Equal(3))
		})

		It("rejects adds beyond the capacity bound", func() {
			small := store.New(2)
			small.Add(specAt(0, 0))
			small.Add(specAt(1, 0))

			_, err := small.Add(specAt(2, 0))
			Expect(err).To(MatchError(world.ErrStoreFull))
		})
	})

	Describe("Remove", func() {
		BeforeEach(func() {
			for i := 0; i < 4; i++ {
				st.Add(specAt(float64(i), 0))
			}
		})

		It("compacts the table and renumbers survivors", func() {
			Expect(st.Remove(1)).To(Succeed())
			Expect(st.Count()).To(Equal(3))

			// Survivors keep their order; indices shift down.
			xs := []float64{0, 2, 3}
			for i, x := range xs {
				rec, err := st.Get(i)
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Index).To(Equal(i))
				Expect(rec.X).To(Equal(x))
			}
		})

		It("drains the table removing index zero repeatedly", func() {
			for st.Count() > 0 {
				Expect(st.Remove(0)).To(Succeed())
			}
			Expect(st.Count()).To(Equal(0))
		})

		It("rejects out-of-range indices", func() {
			Expect(st.Remove(4)).To(MatchError(world.ErrNotFound))
			Expect(st.Remove(-1)).To(MatchError(world.ErrNotFound))
		})
	})

	Describe("BatchGet", func() {
		BeforeEach(func() {
			for i := 0; i < 3; i++ {
				st.Add(specAt(float64(i), 0))
			}
		})

		It("returns records in request order", func() {
			recs, err := st.BatchGet([]int{2, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(2))
			Expect(recs[0].X).To(Equal(2.0))
			Expect(recs[1].X).To(Equal(0.0))
		})

		It("fails the whole call on any bad index", func() {
			_, err := st.BatchGet([]int{0, 7})
			Expect(err).To(MatchError(world.ErrNotFound))
		})
	})

	Describe("BatchUpdate", func() {
		BeforeEach(func() {
			st.Add(specAt(1, 1))
			st.Add(specAt(2, 2))
		})

		It("overwrites only the masked fields", func() {
			err := st.BatchUpdate([]world.BatchUpdate{
				{Index: 0, Mask: world.FieldVX | world.FieldY, VX: 9, Y: -3, X: 100},
			})
			Expect(err).NotTo(HaveOccurred())

			rec, _ := st.Get(0)
			Expect(rec.VX).To(Equal(9.0))
			Expect(rec.Y).To(Equal(-3.0))
			Expect(rec.X).To(Equal(1.0), "unmasked X must keep its value")
		})

		It("applies nothing when any update is invalid", func() {
			err := st.BatchUpdate([]world.BatchUpdate{
				{Index: 0, Mask: world.FieldX, X: 42},
				{Index: 9, Mask: world.FieldX, X: 42},
			})
			Expect(err).To(MatchError(world.ErrNotFound))

			rec, _ := st.Get(0)
			Expect(rec.X).To(Equal(1.0))
		})
	})

	Describe("frame buffering", func() {
		It("isolates the snapshot from next-frame writes", func() {
			st.Add(specAt(1, 0))

			snap, next := st.BeginFrame(0.5)
			Expect(snap.Time).To(Equal(0.5))
			Expect(snap.Records).To(HaveLen(1))

			next[0].X = 99
			Expect(snap.Records[0].X).To(Equal(1.0))

			// Committed state is unchanged until Commit.
			rec, _ := st.Get(0)
			Expect(rec.X).To(Equal(1.0))

			st.Commit()
			rec, _ = st.Get(0)
			Expect(rec.X).To(Equal(99.0))
			Expect(st.Frame()).To(Equal(uint64(1)))
		})

		It("feeds host overwrites into the next snapshot", func() {
			st.Add(specAt(1, 0))
			st.BeginFrame(0)
			st.Commit()

			Expect(st.BatchUpdate([]world.BatchUpdate{
				{Index: 0, Mask: world.FieldPosition, X: 10, Y: 20},
			})).To(Succeed())

			snap, _ := st.BeginFrame(0.1)
			Expect(snap.Records[0].X).To(Equal(10.0))
			Expect(snap.Records[0].Y).To(Equal(20.0))
		})
	})
})
