package scene_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigsim/internal/rig"
	"github.com/san-kum/rigsim/internal/scene"
)

var _ = Describe("Scene", func() {
	var s *scene.Scene

	BeforeEach(func() {
		s = scene.New()
		s.Add("m::a", rig.NewPose(0, 0, 1, 0, 0, 0))
		s.Add("m::b", rig.NewPose(1, 0, 1, 0, 0, 0))
	})

	It("publishes added entities immediately", func() {
		p, ok := s.Pose("m::a")
		Expect(ok).To(BeTrue())
		Expect(p.Pos[2]).To(Equal(1.0))
		Expect(s.Len()).To(Equal(2))
	})

	Describe("deferred updates", func() {
		BeforeEach(func() {
			s.MarkDirty("m::a", rig.NewPose(0, 0, 2, 0, 0, 0))
		})

		It("keeps readers on the previous pose until flush", func() {
			p, _ := s.Pose("m::a")
			Expect(p.Pos[2]).To(Equal(1.0))
		})

		It("publishes on flush and reports what changed", func() {
			ups := s.Flush()
			Expect(ups).To(HaveLen(1))
			Expect(ups[0].Name).To(Equal("m::a"))
			Expect(ups[0].Pose.Pos[2]).To(Equal(2.0))

			p, _ := s.Pose("m::a")
			Expect(p.Pos[2]).To(Equal(2.0))
		})

		It("clears the dirty set after flushing", func() {
			Expect(s.Flush()).To(HaveLen(1))
			Expect(s.Flush()).To(BeNil())
		})
	})

	It("sorts flushed updates by name", func() {
		s.MarkDirty("m::b", rig.NewPose(9, 0, 0, 0, 0, 0))
		s.MarkDirty("m::a", rig.NewPose(8, 0, 0, 0, 0, 0))
		ups := s.Flush()
		Expect(ups).To(HaveLen(2))
		Expect(ups[0].Name).To(Equal("m::a"))
		Expect(ups[1].Name).To(Equal("m::b"))
	})

	It("collapses repeated marks into the last pose", func() {
		s.MarkDirty("m::a", rig.NewPose(0, 0, 3, 0, 0, 0))
		s.MarkDirty("m::a", rig.NewPose(0, 0, 4, 0, 0, 0))
		ups := s.Flush()
		Expect(ups).To(HaveLen(1))
		Expect(ups[0].Pose.Pos[2]).To(Equal(4.0))
	})

	It("drops removed entities along with pending updates", func() {
		s.MarkDirty("m::b", rig.NewPose(5, 0, 0, 0, 0, 0))
		s.Remove("m::b")
		Expect(s.Flush()).To(BeNil())
		_, ok := s.Pose("m::b")
		Expect(ok).To(BeFalse())
		Expect(s.Len()).To(Equal(1))
	})

	Describe("snapshots", func() {
		It("hands out copies detached from later flushes", func() {
			snap := s.Snapshot()
			s.MarkDirty("m::a", rig.NewPose(0, 0, 7, 0, 0, 0))
			s.Flush()
			Expect(snap["m::a"].Pos[2]).To(Equal(1.0))
			Expect(snap).To(HaveLen(2))
		})
	})
})
