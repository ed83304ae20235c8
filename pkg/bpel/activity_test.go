//go:build !integration

package bpel

import (
	"testing"
)

func sampleProcess() *Process {
	return &Process{
		Name: "Sample",
		Activity: &Activity{
			Kind: KindSequence,
			Name: "main",
			Children: []*Activity{
				{Kind: KindReceive, Name: "start"},
				{
					Kind: KindIf,
					Name: "route",
					Branches: []Branch{
						{Kind: "if", Condition: "$x > 1", Body: &Activity{Kind: KindInvoke, Name: "callA"}},
						{Kind: "else", Body: &Activity{Kind: KindThrow, Name: "reject"}},
					},
				},
				{
					Kind: KindScope,
					Name: "work",
					FaultHandlers: []FaultHandler{
						{FaultName: "tns:oops", Handler: &Activity{Kind: KindEmpty, Name: "swallow"}},
					},
					CompensationHandler: &Activity{Kind: KindInvoke, Name: "undo"},
					Children:            []*Activity{{Kind: KindEmpty, Name: "step"}},
				},
			},
		},
		FaultHandlers: []FaultHandler{
			{CatchAll: true, Handler: &Activity{Kind: KindExit, Name: "stop"}},
		},
		EventHandlers: []EventHandler{
			{Kind: "onAlarm", For: "'PT1H'", Handler: &Activity{Kind: KindEmpty, Name: "tick"}},
		},
	}
}

func TestWalkVisitsEverything(t *testing.T) {
	process := sampleProcess()

	var names []string
	Walk(process.Activity, func(a *Activity) bool {
		if a.Name != "" {
			names = append(names, a.Name)
		}
		return true
	})

	want := []string{"main", "start", "route", "work", "step", "callA", "reject", "swallow", "undo"}
	if len(names) != len(want) {
		t.Fatalf("expected %d visited activities, got %v", len(want), names)
	}
	visited := map[string]bool{}
	for _, n := range names {
		visited[n] = true
	}
	for _, n := range want {
		if !visited[n] {
			t.Errorf("expected Walk to visit %q", n)
		}
	}
	if names[0] != "main" || names[1] != "start" {
		t.Errorf("expected document order to start main, start; got %v", names[:2])
	}
}

func TestWalkStops(t *testing.T) {
	process := sampleProcess()

	count := 0
	Walk(process.Activity, func(a *Activity) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Errorf("expected the walk to stop after 3 visits, got %d", count)
	}
}

func TestWalkNil(t *testing.T) {
	if !Walk(nil, func(a *Activity) bool { return false }) {
		t.Error("walking nil must succeed without calling fn")
	}
}

func TestProcessActivities(t *testing.T) {
	process := sampleProcess()

	byName := map[string]*Activity{}
	for _, a := range process.Activities() {
		byName[a.Name] = a
	}

	for _, n := range []string{"main", "stop", "tick", "undo", "swallow"} {
		if byName[n] == nil {
			t.Errorf("expected Activities to include %q", n)
		}
	}
	if len(process.Activities()) != 11 {
		t.Errorf("expected 11 activities, got %d", len(process.Activities()))
	}
}
