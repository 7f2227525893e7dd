package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/body"
	"github.com/pthm-cable/soma/config"
)

func TestMain(m *testing.M) {
	config.MustInit("")
	os.Exit(m.Run())
}

func writeScenario(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSortsSteps(t *testing.T) {
	path := writeScenario(t, `
name: ordering
steps:
  - at: 5
    action: heal
    part: chest
    amount: 10
  - at: 1
    action: damage
    part: chest
    amount: 20
`)

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sc.Name != "ordering" {
		t.Errorf("name = %q", sc.Name)
	}
	if sc.Steps[0].Action != "damage" || sc.Steps[1].Action != "heal" {
		t.Errorf("steps out of tick order: %+v", sc.Steps)
	}
}

func TestValidateRejectsBadSteps(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown action", "steps:\n  - at: 0\n    action: teleport\n    part: chest\n"},
		{"unknown part", "steps:\n  - at: 0\n    action: damage\n    part: tail\n"},
		{"part on systemic", "steps:\n  - at: 0\n    action: feed\n    part: chest\n"},
		{"negative tick", "steps:\n  - at: -1\n    action: feed\n"},
		{"effect bad target", "steps:\n  - at: 0\n    action: effect\n    part: chest\n    target: lymphatic\n    gauge: health\n"},
		{"effect bad gauge", "steps:\n  - at: 0\n    action: effect\n    part: chest\n    target: skeletal\n    gauge: mana\n"},
		{"effect bad falloff", "steps:\n  - at: 0\n    action: effect\n    part: chest\n    target: skeletal\n    gauge: health\n    falloff: 1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeScenario(t, tt.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyFiresAtScheduledTicks(t *testing.T) {
	path := writeScenario(t, `
steps:
  - at: 0
    action: damage
    part: left_arm
    amount: 10
  - at: 2
    action: feed
    amount: 50
`)
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	b, err := body.New()
	if err != nil {
		t.Fatalf("body.New: %v", err)
	}

	if fired := sc.Apply(0, b); len(fired) != 1 || fired[0].Action != "damage" {
		t.Fatalf("tick 0 fired %+v", fired)
	}
	if fired := sc.Apply(1, b); len(fired) != 0 {
		t.Fatalf("tick 1 fired %+v", fired)
	}
	if fired := sc.Apply(2, b); len(fired) != 1 || fired[0].Action != "feed" {
		t.Fatalf("tick 2 fired %+v", fired)
	}
	if !sc.Done() {
		t.Error("all steps fired, scenario should be done")
	}

	b.Update()
	if got := b.Siblings().Skin().IntegrityAt(anatomy.LeftArm); got >= 100 {
		t.Errorf("skin integrity = %v, want reduced by the scripted hit", got)
	}
}

func TestEffectActionSpreadsThroughTarget(t *testing.T) {
	path := writeScenario(t, `
steps:
  - at: 0
    action: effect
    part: chest
    target: skeletal
    gauge: health
    amount: 10
    falloff: 0.5
    decrease: true
`)
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	b, err := body.New()
	if err != nil {
		t.Fatalf("body.New: %v", err)
	}

	sc.Apply(0, b)
	b.Update()

	sk := b.Siblings().Skeletal()
	if got := sk.HealthAt(anatomy.Chest); got >= 100 {
		t.Errorf("chest bone health = %v, want reduced by the scripted effect", got)
	}
	if got := b.Siblings().Skin().IntegrityAt(anatomy.Chest); got < 100 {
		t.Errorf("skin integrity = %v, a skeletal effect should not touch skin", got)
	}
}
