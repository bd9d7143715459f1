package game

import "testing"

func eligibleSet(ids ...string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func TestAggregator_RecordOverwritesPriorSelection(t *testing.T) {
	sa := NewSelectionAggregator()
	eligible := eligibleSet("p1", "p2")

	if err := sa.Record("p1", "Alice", eligible); err != nil {
		t.Fatalf("first record should succeed, got: %v", err)
	}
	if err := sa.Record("p1", "Bob", eligible); err != nil {
		t.Fatalf("re-record should succeed, got: %v", err)
	}
	if err := sa.Record("p2", "Bob", eligible); err != nil {
		t.Fatalf("second selector should succeed, got: %v", err)
	}

	target, votes, total := sa.Resolve()
	if target != "Bob" || votes != 2 || total != 2 {
		t.Fatalf("want Bob/2/2, got %s/%d/%d", target, votes, total)
	}
}

func TestAggregator_RejectsIneligibleSelector(t *testing.T) {
	sa := NewSelectionAggregator()

	err := sa.Record("ghost", "Alice", eligibleSet("p1"))
	if err != ErrIneligibleSelector {
		t.Fatalf("want ErrIneligibleSelector, got: %v", err)
	}
}

func TestAggregator_QuorumFollowsCurrentEligibility(t *testing.T) {
	sa := NewSelectionAggregator()
	eligible := eligibleSet("p1", "p2", "p3")

	sa.Record("p1", "Alice", eligible)
	sa.Record("p2", "Alice", eligible)

	if sa.QuorumReached([]string{"p1", "p2", "p3"}) {
		t.Fatal("quorum should not be reached while p3 is pending")
	}

	// p3 中途离开，法定人数按剩余的选择者计算
	sa.RemoveSelector("p3")

	if !sa.QuorumReached([]string{"p1", "p2"}) {
		t.Fatal("quorum should be reached after p3 left")
	}
}

func TestAggregator_MajorityVoteResolution(t *testing.T) {
	sa := NewSelectionAggregator()
	eligible := eligibleSet("p1", "p2", "p3")

	sa.Record("p1", "A", eligible)
	sa.Record("p2", "A", eligible)
	sa.Record("p3", "B", eligible)

	target, votes, total := sa.Resolve()
	if target != "A" || votes != 2 || total != 3 {
		t.Fatalf("want A/2/3, got %s/%d/%d", target, votes, total)
	}

	// 2 > 3/2，达到严格过半数
	if votes*2 <= total {
		t.Fatal("two of three votes should be a strict majority")
	}
}

func TestAggregator_EvenSplitIsNotMajority(t *testing.T) {
	sa := NewSelectionAggregator()
	eligible := eligibleSet("p1", "p2")

	sa.Record("p1", "A", eligible)
	sa.Record("p2", "B", eligible)

	target, votes, total := sa.Resolve()
	if votes != 1 || total != 2 {
		t.Fatalf("want 1/2, got %d/%d", votes, total)
	}

	// 平票时第一个达到最大票数的目标领先，但 1 > 1 不成立，不应处决
	if target != "A" {
		t.Fatalf("stable tie-break should keep A, got %s", target)
	}
	if votes*2 > total {
		t.Fatal("an even split must not count as a majority")
	}
}

func TestAggregator_TieBreakIsStable(t *testing.T) {
	for i := 0; i < 50; i++ {
		sa := NewSelectionAggregator()
		eligible := eligibleSet("p1", "p2", "p3", "p4")

		sa.Record("p1", "B", eligible)
		sa.Record("p2", "A", eligible)
		sa.Record("p3", "A", eligible)
		sa.Record("p4", "B", eligible)

		target, votes, _ := sa.Resolve()

		// B 先被提名，平票时始终是 B 获胜，不允许随机化
		if target != "B" || votes != 2 {
			t.Fatalf("trial %d: want B/2, got %s/%d", i, target, votes)
		}
	}
}

func TestAggregator_ResolveClearsState(t *testing.T) {
	sa := NewSelectionAggregator()
	eligible := eligibleSet("p1")

	sa.Record("p1", "A", eligible)
	sa.Resolve()

	if sa.Count() != 0 {
		t.Fatalf("selections should be cleared after resolve, got %d", sa.Count())
	}

	_, _, total := sa.Resolve()
	if total != 0 {
		t.Fatalf("second resolve should see no selections, got %d", total)
	}
}
