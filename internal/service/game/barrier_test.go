package game

import "testing"

func TestBarrier_ReleasesOnlyWhenAllArrived(t *testing.T) {
	pb := NewPhaseBarrier()
	members := []string{"p1", "p2", "p3"}

	pb.Arrive("p1")
	if pb.AllArrived(members) {
		t.Fatal("barrier released with two members pending")
	}

	pb.Arrive("p2")
	if pb.AllArrived(members) {
		t.Fatal("barrier released with one member pending")
	}

	pb.Arrive("p3")
	if !pb.AllArrived(members) {
		t.Fatal("barrier should release once everyone arrived")
	}
}

func TestBarrier_DuplicateArriveIsIdempotent(t *testing.T) {
	pb := NewPhaseBarrier()
	members := []string{"p1", "p2"}

	pb.Arrive("p1")
	pb.Arrive("p1")
	pb.Arrive("p1")

	if pb.AllArrived(members) {
		t.Fatal("repeated arrivals of one member must not release the barrier")
	}
}

func TestBarrier_RemoveShrinksRequirement(t *testing.T) {
	pb := NewPhaseBarrier()

	pb.Arrive("p1")
	pb.Remove("p2")

	// p2 离开后成员集合缩小，剩余成员到齐即放行
	if !pb.AllArrived([]string{"p1"}) {
		t.Fatal("barrier should release for the remaining member")
	}
}

func TestBarrier_EmptyMembersNeverRelease(t *testing.T) {
	pb := NewPhaseBarrier()

	if pb.AllArrived(nil) {
		t.Fatal("an empty member set must not release the barrier")
	}
}

func TestBarrier_ResetClearsArrivals(t *testing.T) {
	pb := NewPhaseBarrier()
	members := []string{"p1"}

	pb.Arrive("p1")
	pb.Reset()

	if pb.AllArrived(members) {
		t.Fatal("arrivals should be forgotten after reset")
	}
}
