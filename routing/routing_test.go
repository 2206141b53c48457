package routing

import (
	"reflect"
	"sort"
	"testing"
)

const self = "127.0.1.1"

func TestSelfRoute(t *testing.T) {
	rt := New(self)
	cost, ok := rt.Distance(self)
	if !ok || cost != 0 {
		t.Fatalf("Distance(self) = %d, %v, want 0, true", cost, ok)
	}
	hop, ok := rt.NextHop(self)
	if !ok || hop != self {
		t.Fatalf("NextHop(self) = %q, %v, want %q, true", hop, ok, self)
	}
}

func TestLearnInstallsNewRoute(t *testing.T) {
	rt := New(self)
	rt.LearnNeighborVector("B", 10, map[string]int{"C": 5})

	cost, ok := rt.Distance("C")
	if !ok || cost != 15 {
		t.Fatalf("Distance(C) = %d, %v, want 15, true", cost, ok)
	}
	hop, _ := rt.NextHop("C")
	if hop != "B" {
		t.Fatalf("NextHop(C) = %q, want B", hop)
	}
}

func TestLearnStrictRelaxationReplacesHopSet(t *testing.T) {
	rt := New(self)
	rt.LearnNeighborVector("B", 10, map[string]int{"C": 5}) // cost 15 via B
	rt.LearnNeighborVector("D", 1, map[string]int{"C": 3})  // cost 4 via D, strictly better

	cost, _ := rt.Distance("C")
	if cost != 4 {
		t.Fatalf("Distance(C) = %d, want 4", cost)
	}
	r := rt.Snapshot()["C"]
	if !reflect.DeepEqual(r.HopList(), []string{"D"}) {
		t.Fatalf("hops = %v, want [D]", r.HopList())
	}
}

func TestLearnTieJoinsECMP(t *testing.T) {
	rt := New(self)
	rt.LearnNeighborVector("B", 10, map[string]int{"C": 5}) // 15 via B
	rt.LearnNeighborVector("D", 5, map[string]int{"C": 10}) // 15 via D, tie

	r := rt.Snapshot()["C"]
	hops := r.HopList()
	sort.Strings(hops)
	if !reflect.DeepEqual(hops, []string{"B", "D"}) {
		t.Fatalf("hops = %v, want [B D]", hops)
	}
}

func TestLearnWorseIsIgnored(t *testing.T) {
	rt := New(self)
	rt.LearnNeighborVector("B", 1, map[string]int{"C": 1}) // cost 2 via B
	rt.LearnNeighborVector("D", 100, map[string]int{"C": 100})

	r := rt.Snapshot()["C"]
	if r.Cost != 2 || !reflect.DeepEqual(r.HopList(), []string{"B"}) {
		t.Fatalf("route to C changed: cost=%d hops=%v", r.Cost, r.HopList())
	}
}

func TestLearnImplicitWithdrawal(t *testing.T) {
	rt := New(self)
	rt.LearnNeighborVector("B", 1, map[string]int{"C": 1}) // 2 via B

	// B now advertises a much worse path to C; B should be dropped as a hop
	// because the just-received advertisement no longer makes it shortest.
	rt.LearnNeighborVector("B", 1, map[string]int{"C": 50})

	if _, ok := rt.Distance("C"); ok {
		t.Fatalf("expected route to C withdrawn, still present")
	}
}

func TestLearnIdempotent(t *testing.T) {
	rt := New(self)
	vec := map[string]int{"C": 5}
	rt.LearnNeighborVector("B", 10, vec)
	first := rt.Snapshot()
	rt.LearnNeighborVector("B", 10, vec)
	second := rt.Snapshot()

	if !reflect.DeepEqual(first["C"].HopList(), second["C"].HopList()) || first["C"].Cost != second["C"].Cost {
		t.Fatalf("applying the same update twice changed the table: %v != %v", first["C"], second["C"])
	}
}

func TestPurgeHop(t *testing.T) {
	rt := New(self)
	rt.LearnNeighborVector("B", 10, map[string]int{"C": 5})
	rt.PurgeHop("B")

	if _, ok := rt.Distance("C"); ok {
		t.Fatalf("route to C survived purge of its only hop")
	}
}

func TestAddDirectOverwrites(t *testing.T) {
	rt := New(self)
	rt.LearnNeighborVector("B", 1, map[string]int{"N": 1}) // N cost 2 via B indirectly... actually direct test below
	rt.AddDirect("N", 20)

	cost, ok := rt.Distance("N")
	if !ok || cost != 20 {
		t.Fatalf("Distance(N) = %d, %v, want 20, true", cost, ok)
	}
	hops := rt.Snapshot()["N"].HopList()
	if !reflect.DeepEqual(hops, []string{"N"}) {
		t.Fatalf("hops = %v, want [N]", hops)
	}
}

func TestExportSplitHorizon(t *testing.T) {
	rt := New(self)
	rt.AddDirect("B", 1)
	rt.LearnNeighborVector("B", 1, map[string]int{"C": 1}) // C cost 2 via B

	vec := rt.Export("B")
	if _, ok := vec["C"]; ok {
		t.Fatalf("export to B leaked a route whose hop set contains B: %v", vec)
	}
	if _, ok := vec[self]; !ok {
		t.Fatalf("export to B should still include the self route: %v", vec)
	}
}

func TestRoundTripAddDel(t *testing.T) {
	rt := New(self)
	rt.AddDirect("N", 5)
	rt.PurgeHop("N")

	if _, ok := rt.Distance("N"); ok {
		t.Fatalf("route to N survived del")
	}
}

func TestNextHopOnlyReturnsCurrentHops(t *testing.T) {
	rt := New(self)
	rt.LearnNeighborVector("B", 1, map[string]int{"X": 1})
	rt.LearnNeighborVector("D", 1, map[string]int{"X": 1}) // tie, ECMP join

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		hop, ok := rt.NextHop("X")
		if !ok {
			t.Fatalf("NextHop(X) missing after ECMP join")
		}
		if hop != "B" && hop != "D" {
			t.Fatalf("NextHop(X) = %q, want B or D", hop)
		}
		seen[hop] = true
	}
	if len(seen) != 2 {
		t.Fatalf("expected both ECMP hops to appear over 200 draws, saw %v", seen)
	}
}

func TestDistanceAbsent(t *testing.T) {
	rt := New(self)
	if _, ok := rt.Distance("nowhere"); ok {
		t.Fatalf("Distance(nowhere) should be absent")
	}
}
