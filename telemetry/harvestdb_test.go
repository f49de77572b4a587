package telemetry

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/species"
)

func TestHarvestIndexTotals(t *testing.T) {
	path := filepath.Join(t.TempDir(), HarvestDBName)

	idx, err := OpenHarvestIndex(path, "run-a", 1)
	if err != nil {
		t.Fatal(err)
	}
	wheat := components.ResourceMap{
		components.Seeds(species.Wheat):     3,
		components.FoodValue(species.Wheat): 10,
	}
	idx.WriteCredits(CreditRecords(5, "alice", wheat))
	idx.WriteCredits(CreditRecords(9, "alice", wheat))
	idx.WriteCredits(CreditRecords(9, "bob", components.ResourceMap{components.Seeds(species.Apple): 15}))
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}
	// Writes after close are ignored.
	idx.WriteCredits(CreditRecords(10, "alice", wheat))

	// A second run in the same file stays separate.
	other, err := OpenHarvestIndex(path, "run-b", 2)
	if err != nil {
		t.Fatal(err)
	}
	other.WriteCredits(CreditRecords(1, "alice", wheat))
	if err := other.Close(); err != nil {
		t.Fatal(err)
	}

	totals, err := HarvestTotals(context.Background(), path, "run-a")
	if err != nil {
		t.Fatal(err)
	}
	want := []HarvestTotal{
		{Player: "alice", Species: "wheat", Kind: "food", Qty: 20},
		{Player: "alice", Species: "wheat", Kind: "seeds", Qty: 6},
		{Player: "bob", Species: "apple", Kind: "seeds", Qty: 15},
	}
	if len(totals) != len(want) {
		t.Fatalf("totals = %+v, want %+v", totals, want)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("totals[%d] = %+v, want %+v", i, totals[i], want[i])
		}
	}
	if idx.Dropped() != 0 {
		t.Errorf("dropped %d rows", idx.Dropped())
	}
}

func TestHarvestIndexEmptyPath(t *testing.T) {
	if _, err := OpenHarvestIndex("", "run", 0); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestHarvestIndexCloseDuringWrites(t *testing.T) {
	idx, err := OpenHarvestIndex(filepath.Join(t.TempDir(), HarvestDBName), "run", 1)
	if err != nil {
		t.Fatal(err)
	}
	records := CreditRecords(1, "alice", components.ResourceMap{components.Seeds(species.Wheat): 1})

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 500; j++ {
				idx.WriteCredits(records)
			}
		}()
	}
	close(start)
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}
	wg.Wait()
}
