package document

import (
	"bytes"
	"iter"
)

// Equal implements the deep-equality relation of RDN §4.3.2: dispatch
// on kind, compare leaves by decoded value, recurse through containers.
func (e Element) Equal(other Element) bool {
	if e.Kind() != other.Kind() {
		// Tuple and Array are the same document-model shape; RDN §9
		// requires the kind tag not affect equality even though this
		// builder keeps it as a distinct Kind for the writer's benefit.
		if !sameShapeKind(e.Kind(), other.Kind()) {
			return false
		}
	}
	switch e.Kind() {
	case Null, True, False:
		return true
	case Number:
		return numbersEqual(e, other)
	case String:
		return stringsEqual(e, other)
	case BigInteger:
		return bigIntsEqual(e, other)
	case DateTime, TimeOnly, Duration:
		return temporalEqual(e, other)
	case Binary:
		return binariesEqual(e, other)
	case RegExp:
		return regexpsEqual(e, other)
	case Array, Tuple, Set:
		return sequencesEqual(e, other)
	case Object:
		return objectsEqual(e, other)
	case Map:
		return mapsEqual(e, other)
	default:
		return false
	}
}

func sameShapeKind(a, b Kind) bool {
	isSeq := func(k Kind) bool { return k == Array || k == Tuple }
	return isSeq(a) && isSeq(b)
}

func numbersEqual(a, b Element) bool {
	af, aerr := a.GetFloat64()
	bf, berr := b.GetFloat64()
	if aerr != nil || berr != nil {
		return false
	}
	if af != af && bf != bf {
		return true // NaN == NaN for equality purposes
	}
	return af == bf
}

func stringsEqual(a, b Element) bool {
	as, aerr := a.GetString()
	bs, berr := b.GetString()
	return aerr == nil && berr == nil && as == bs
}

func bigIntsEqual(a, b Element) bool {
	an, aerr := a.GetBigInt()
	bn, berr := b.GetBigInt()
	if aerr != nil || berr != nil {
		return false
	}
	return an.Cmp(bn) == 0
}

func temporalEqual(a, b Element) bool {
	// All three temporal kinds decode to a canonical struct/time.Time
	// value; comparing the decoded values rather than the raw payloads
	// sidesteps representation differences (e.g. a Unix-timestamp body vs
	// the equivalent calendar datetime).
	switch a.Kind() {
	case DateTime:
		at, aerr := a.GetDateTime()
		bt, berr := b.GetDateTime()
		return aerr == nil && berr == nil && at.Equal(bt)
	case TimeOnly:
		at, aerr := a.GetTimeOnly()
		bt, berr := b.GetTimeOnly()
		return aerr == nil && berr == nil && at == bt
	case Duration:
		ad, aerr := a.GetDuration()
		bd, berr := b.GetDuration()
		return aerr == nil && berr == nil && ad == bd
	default:
		return false
	}
}

func binariesEqual(a, b Element) bool {
	ab, aerr := a.GetBinary()
	bb, berr := b.GetBinary()
	return aerr == nil && berr == nil && bytes.Equal(ab, bb)
}

func regexpsEqual(a, b Element) bool {
	ap, af, aerr := a.GetRegexp()
	bp, bf, berr := b.GetRegexp()
	if aerr != nil || berr != nil || ap != bp {
		return false
	}
	return flagSetEqual(af, bf)
}

func flagSetEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[rune]bool, len(a))
	for _, r := range a {
		seen[r] = true
	}
	for _, r := range b {
		if !seen[r] {
			return false
		}
	}
	return true
}

func sequencesEqual(a, b Element) bool {
	if a.Len() != b.Len() {
		return false
	}
	n := a.Len()
	ai, bi := a.firstChild(), b.firstChild()
	for k := 0; k < n; k++ {
		av := Element{doc: a.doc, idx: ai}
		bv := Element{doc: b.doc, idx: bi}
		if !av.Equal(bv) {
			return false
		}
		ai = a.doc.nodes[ai].NextSibling
		bi = b.doc.nodes[bi].NextSibling
	}
	return true
}

// objectsEqual implements order-insensitive, multiset property-name
// equality (RDN §4.3.2): each name must occur with the same
// multiplicity on both sides, and the values under a repeated name must
// admit a value-for-value pairing, not just a name match.
func objectsEqual(a, b Element) bool {
	if a.PairCount() != b.PairCount() {
		return false
	}
	type group struct{ values []Element }
	av := map[string]*group{}
	var order []string
	for name, val := range a.Properties() {
		g, ok := av[name]
		if !ok {
			g = &group{}
			av[name] = g
			order = append(order, name)
		}
		g.values = append(g.values, val)
	}
	bv := map[string][]Element{}
	for name, val := range b.Properties() {
		bv[name] = append(bv[name], val)
	}
	if len(av) != len(bv) {
		return false
	}
	for _, name := range order {
		avals := av[name].values
		bvals := bv[name]
		if len(avals) != len(bvals) {
			return false
		}
		used := make([]bool, len(bvals))
		for _, x := range avals {
			matched := false
			for j, y := range bvals {
				if !used[j] && x.Equal(y) {
					used[j] = true
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}

func mapsEqual(a, b Element) bool {
	if a.PairCount() != b.PairCount() {
		return false
	}
	nextA, stopA := iter.Pull2(a.Pairs())
	defer stopA()
	nextB, stopB := iter.Pull2(b.Pairs())
	defer stopB()
	for {
		ak, av, aok := nextA()
		bk, bv, bok := nextB()
		if aok != bok {
			return false
		}
		if !aok {
			return true
		}
		if !ak.Equal(bk) || !av.Equal(bv) {
			return false
		}
	}
}
