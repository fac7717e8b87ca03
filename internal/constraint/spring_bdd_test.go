package constraint_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rbsolve/internal/constraint"
	"github.com/san-kum/rbsolve/internal/linalg"
	"github.com/san-kum/rbsolve/internal/rigid"
)

var _ = Describe("Spring", func() {
	var (
		bodies       *rigid.Arena[rigid.Body]
		h1, h2       rigid.Handle
		spring       *constraint.Spring
		restLength   = 1.0
	)

	BeforeEach(func() {
		bodies = rigid.NewArena[rigid.Body](0, 2)

		var err error
		h1, err = bodies.Alloc()
		Expect(err).NotTo(HaveOccurred())
		b1, _ := bodies.Get(h1)
		*b1 = rigid.NewBody()
		b1.InverseMass = 0
		b1.RecomputeWorldInertia()

		h2, err = bodies.Alloc()
		Expect(err).NotTo(HaveOccurred())
		b2, _ := bodies.Get(h2)
		*b2 = rigid.NewBody()
		b2.Position = linalg.Vec3{0, 2, 0}
		b2.InverseMass = 1
		b2.InverseInertiaLocal = linalg.Identity3()
		b2.RecomputeWorldInertia()

		spring = constraint.NewSpring(h1, h2, linalg.Vec3{}, linalg.Vec3{}, restLength, 500, 5)
	})

	It("pulls a stretched anchor back toward the resting separation", func() {
		Expect(spring.Prepare(bodies, 60)).To(Succeed())
		for i := 0; i < 30; i++ {
			Expect(spring.Iterate(bodies, 60)).To(Succeed())
		}

		b2, _ := bodies.Get(h2)
		Expect(b2.Velocity.Y()).To(BeNumerically("<", 0), "stretched spring should pull body 2 downward")
	})

	It("leaves velocities untouched when already at rest length", func() {
		b2, _ := bodies.Get(h2)
		b2.Position = linalg.Vec3{0, restLength, 0}

		Expect(spring.Prepare(bodies, 60)).To(Succeed())
		Expect(spring.Iterate(bodies, 60)).To(Succeed())

		b2, _ = bodies.Get(h2)
		Expect(b2.Velocity.Len()).To(BeNumerically("~", 0, 1e-9))
	})
})
