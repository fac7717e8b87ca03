package linalg

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func approxMat3(a, b Mat3, tol float64) bool {
	for i := 0; i < 9; i++ {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestProjectMultiplyLeftRightMatchesNaiveExpansion(t *testing.T) {
	cases := []struct{ a, b Quat }{
		{IdentityQuat(), IdentityQuat()},
		{FromAxisAngle(0.7, Vec3{0, 1, 0}), FromAxisAngle(-1.3, Vec3{1, 0, 0})},
		{FromAxisAngle(math.Pi-0.01, Vec3{0, 0, 1}), FromAxisAngle(0.2, Vec3{1, 1, 1})},
	}
	for i, c := range cases {
		got := ProjectMultiplyLeftRight(c.a, c.b)
		want := naiveProjectMultiplyLeftRight(c.a, c.b)
		if !approxMat3(got, want, 1e-9) {
			t.Fatalf("case %d: closed-form %v != naive %v", i, got, want)
		}
	}
}

func TestProjectMultiplyLeftRightOfConjugateIsRotationMatrix(t *testing.T) {
	q := FromAxisAngle(1.1, mgl64.Vec3{1, 2, 3}.Normalize())
	got := ProjectMultiplyLeftRight(q, q.Conjugate())
	want := RotationMatrix(q)
	if !approxMat3(got, want, 1e-6) {
		t.Fatalf("Project(L(q)R(q*)) = %v, want rotation matrix %v", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	q := Quat{W: 3, V: Vec3{1, -2, 0.5}}
	n1 := Normalize(q)
	n2 := Normalize(n1)
	if math.Abs(n1.W-n2.W) > 1e-12 || n1.V.Sub(n2.V).Len() > 1e-12 {
		t.Fatalf("normalize not idempotent: %v vs %v", n1, n2)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 {
		t.Fatal("clamp high failed")
	}
	if Clamp(-5, 0, 1) != 0 {
		t.Fatal("clamp low failed")
	}
	if Clamp(0.5, 0, 1) != 0.5 {
		t.Fatal("clamp passthrough failed")
	}
}
