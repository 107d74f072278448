package curve

import "testing"

func TestGeneratorsIndependent(t *testing.T) {
	g := GeneratorG()
	h := GeneratorH()
	if g.Equal(h) {
		t.Fatal("G and H are the same point")
	}
	if h.Equal(Identity()) {
		t.Fatal("H is the identity")
	}
}

func TestCommitmentEquation(t *testing.T) {
	v := ScalarFromUint64(1000)
	b := NewBlinding(testScalar("pedersen-blinding"))

	c := Commit(v, b)

	// v*G + b*H computed by hand.
	expected := BaseMul(v).Add(GeneratorH().Mul(b.AsScalar())).Compress()
	if c != Commitment(expected) {
		t.Error("commitment does not equal v*G + b*H")
	}
}

func TestCommitmentBindsValueAndBlinding(t *testing.T) {
	b := NewBlinding(testScalar("bind"))
	c1 := Commit(ScalarFromUint64(1), b)
	c2 := Commit(ScalarFromUint64(2), b)
	if c1 == c2 {
		t.Error("different values committed to the same point")
	}

	c3 := Commit(ScalarFromUint64(1), NewBlinding(testScalar("bind-other")))
	if c1 == c3 {
		t.Error("different blindings committed to the same point")
	}
}

func TestCommitmentHomomorphic(t *testing.T) {
	b1 := NewBlinding(testScalar("homo-1"))
	b2 := NewBlinding(testScalar("homo-2"))

	c1 := Commit(ScalarFromUint64(100), b1)
	c2 := Commit(ScalarFromUint64(200), b2)

	sum, err := c1.Add(c2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	bSum := NewBlinding(b1.AsScalar().Add(b2.AsScalar()))
	if sum != Commit(ScalarFromUint64(300), bSum) {
		t.Error("homomorphic addition does not hold")
	}

	diff, err := sum.Subtract(c2)
	if err != nil {
		t.Fatalf("Subtract: %v", err)
	}
	if diff != c1 {
		t.Error("homomorphic subtraction does not hold")
	}
}

func TestVerifyValueConservation(t *testing.T) {
	bIn := NewBlinding(testScalar("conserve-in"))
	b1 := NewBlinding(testScalar("conserve-out-1"))
	b2 := NewBlinding(bIn.AsScalar().Subtract(b1.AsScalar()))

	const fee = 5
	input := Commit(ScalarFromUint64(100), bIn)
	out1 := Commit(ScalarFromUint64(60), b1)
	out2 := Commit(ScalarFromUint64(35), b2)

	if !VerifyValueConservation([]Commitment{input}, []Commitment{out1, out2}, fee) {
		t.Error("balanced transaction failed conservation check")
	}
	if VerifyValueConservation([]Commitment{input}, []Commitment{out1, out2}, fee+1) {
		t.Error("unbalanced fee passed conservation check")
	}

	inflated := Commit(ScalarFromUint64(36), b2)
	if VerifyValueConservation([]Commitment{input}, []Commitment{out1, inflated}, fee) {
		t.Error("inflated output passed conservation check")
	}
}

func TestCommitmentDecompressRejectsGarbage(t *testing.T) {
	var bad Commitment
	for i := range bad {
		bad[i] = 0xff
	}
	if _, err := bad.Decompress(); err != ErrInvalidPoint {
		t.Errorf("expected ErrInvalidPoint, got %v", err)
	}
}
