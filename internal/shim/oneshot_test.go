package shim

import (
	"testing"

	"github.com/playsight/shim/internal/player"
	"github.com/playsight/shim/internal/sim"
)

func TestOneshotFiresOnce(t *testing.T) {
	p := sim.NewPlayer("x")
	fired := 0
	armOneshot(p, player.CoreTimeUpdate, nil, nil, func(player.Event) { fired++ })

	p.Fire("timeupdate")
	p.Fire("timeupdate")

	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
}

func TestOneshotQualifierRejects(t *testing.T) {
	p := sim.NewPlayer("x")
	accept := false
	fired := 0
	armOneshot(p, player.CoreTimeUpdate,
		func(player.Event) bool { return accept },
		nil,
		func(player.Event) { fired++ })

	p.Fire("timeupdate")
	if fired != 0 {
		t.Fatal("fired despite rejecting qualifier")
	}

	accept = true
	p.Fire("timeupdate")
	if fired != 1 {
		t.Errorf("fired %d times after qualifier accepted, want 1", fired)
	}
}

func TestOneshotDisqualified(t *testing.T) {
	p := sim.NewPlayer("x")
	fired := 0
	armOneshot(p, player.CoreTimeUpdate, nil,
		[]string{player.CorePause, player.CoreSeeking},
		func(player.Event) { fired++ })

	p.Fire("seeking")
	p.Fire("timeupdate")

	if fired != 0 {
		t.Errorf("fired %d times after disqualifier, want 0", fired)
	}
}

func TestOneshotCancel(t *testing.T) {
	p := sim.NewPlayer("x")
	fired := 0
	cancel := armOneshot(p, player.CoreTimeUpdate, nil, nil, func(player.Event) { fired++ })

	cancel()
	cancel() // repeated cancel is a no-op
	p.Fire("timeupdate")

	if fired != 0 {
		t.Errorf("fired %d times after cancel, want 0", fired)
	}
}
