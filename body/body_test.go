package body

import (
	"math"
	"os"
	"testing"

	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/events"
	"github.com/pthm-cable/soma/vitals"
)

func TestMain(m *testing.M) {
	config.MustInit("")
	os.Exit(m.Run())
}

func newBody(t *testing.T) *Body {
	t.Helper()
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestNewBodyIsIntact(t *testing.T) {
	b := newBody(t)

	if len(b.Systems()) != len(anatomy.AllSystems()) {
		t.Fatalf("systems = %d, want %d", len(b.Systems()), len(anatomy.AllSystems()))
	}
	for _, part := range anatomy.AllParts() {
		if ok, reason := b.KineticChain(part); !ok {
			t.Errorf("chain to %v broken on a fresh body: %s", part, reason)
		}
	}
	if c := b.Condition(); c < 0.99 {
		t.Errorf("fresh condition = %v, want ~1", c)
	}
}

func TestAirwayBlockStopsAirflow(t *testing.T) {
	b := newBody(t)
	resp := b.Siblings().Respiratory()

	b.TakeDamage(anatomy.Neck, 30)
	b.Update()

	if !resp.Blocked(anatomy.Neck) {
		t.Fatal("neck airway should block at 30 damage")
	}
	if flow := resp.AirflowReachingLungs(); flow != 0 {
		t.Errorf("airflow = %v, want 0 through a blocked airway", flow)
	}
}

func TestAirwayDamageAttenuatesFlow(t *testing.T) {
	b := newBody(t)
	resp := b.Siblings().Respiratory()

	b.TakeDamage(anatomy.Head, 20)
	b.TakeDamage(anatomy.Neck, 20)
	b.Update()

	// Each damaged segment passes (1 - 20/100) of what it receives.
	want := 100.0 * 0.8 * 0.8
	if flow := resp.AirflowReachingLungs(); math.Abs(flow-want) > 1e-9 {
		t.Errorf("airflow = %v, want %v", flow, want)
	}
	if resp.Blocked(anatomy.Head) || resp.Blocked(anatomy.Neck) {
		t.Error("damage below the block threshold must not block")
	}
}

func TestLungDamageAndHeal(t *testing.T) {
	b := newBody(t)
	resp := b.Siblings().Respiratory()

	b.TakeDamage(anatomy.Chest, 40)
	b.Heal(anatomy.Chest, 20)
	b.Update()

	// Capacity loses half the damage and recovers 30% of the heal.
	want := 100.0 - 40*0.5 + 20*0.3
	if cap := resp.LungCapacity(); math.Abs(cap-want) > 1e-9 {
		t.Errorf("lung capacity = %v, want %v", cap, want)
	}
	if resp.OxygenOutput() <= 0 {
		t.Error("bruised lungs should still exchange gas")
	}
}

func TestFractureCascade(t *testing.T) {
	b := newBody(t)
	sk := b.Siblings().Skeletal()

	b.TakeDamage(anatomy.LeftArm, 100)
	b.Update()

	if !sk.IsFractured(anatomy.LeftArm) {
		t.Fatal("arm bone should fracture at zero health")
	}
	hand, _ := sk.Node(anatomy.LeftHand)
	if !hand.Status().Has(vitals.Disabled) {
		t.Error("hand should go limp below a fractured arm")
	}
	if ok, reason := b.KineticChain(anatomy.LeftHand); ok {
		t.Error("chain to the hand should be broken")
	} else if reason != "fractured: left_arm" {
		t.Errorf("reason = %q", reason)
	}
	if b.Siblings().Nervous().PainLevel() <= 0 {
		t.Error("a fracture should register pain the same tick")
	}
	// A hit that hard also tears the muscle.
	if !b.Siblings().Muscular().IsTorn(anatomy.LeftArm) {
		t.Error("expected a torn muscle")
	}
}

func TestSetBoneKeepsTornMuscleDisabled(t *testing.T) {
	b := newBody(t)

	b.TakeDamage(anatomy.LeftArm, 100)
	b.Update()

	b.SetBone(anatomy.LeftArm)
	b.Update()

	sk := b.Siblings().Skeletal()
	if sk.IsFractured(anatomy.LeftArm) {
		t.Fatal("set bone should clear the fracture")
	}
	hand, _ := sk.Node(anatomy.LeftHand)
	if hand.Status().Has(vitals.Disabled) {
		t.Error("skeletal hand should re-enable once the arm is set")
	}
	if ok, _ := b.KineticChain(anatomy.LeftHand); !ok {
		t.Error("chain should be intact after setting the bone")
	}

	// The separately torn muscle stays down until it is repaired.
	mus := b.Siblings().Muscular()
	if !mus.IsTorn(anatomy.LeftArm) {
		t.Fatal("setting a bone must not mend muscle")
	}
	if mus.ForceOutput(anatomy.LeftArm) != 0 {
		t.Error("torn muscle produces no force")
	}

	b.RepairMuscle(anatomy.LeftArm)
	b.Update()
	if mus.IsTorn(anatomy.LeftArm) {
		t.Error("repair should clear the tear")
	}
}

func TestSetBoneOnIntactBoneIsNoop(t *testing.T) {
	b := newBody(t)
	sk := b.Siblings().Skeletal()

	before := sk.HealthAt(anatomy.LeftArm)
	b.SetBone(anatomy.LeftArm)
	b.Update()

	if sk.IsFractured(anatomy.LeftArm) {
		t.Error("setting an unbroken bone must not fracture it")
	}
	if sk.HealthAt(anatomy.LeftArm) < before {
		t.Error("setting an unbroken bone must not hurt it")
	}
}

func TestSeverNerveCutsForce(t *testing.T) {
	b := newBody(t)
	b.Update() // establish blood flow

	mus := b.Siblings().Muscular()
	nerv := b.Siblings().Nervous()

	if f := mus.ForceOutput(anatomy.LeftArm); f <= 0 {
		t.Fatalf("healthy force = %v, want positive", f)
	}

	b.SeverNerve(anatomy.LeftArm)
	b.Update()

	if !nerv.IsSevered(anatomy.LeftArm) {
		t.Fatal("nerve should be severed")
	}
	if f := mus.ForceOutput(anatomy.LeftArm); f != 0 {
		t.Errorf("force = %v, want 0 with no signal", f)
	}
	if nerv.SignalFraction(anatomy.LeftHand) != 0 {
		t.Error("everything below a severed nerve goes dark")
	}

	b.RepairNerve(anatomy.LeftArm)
	b.Update()
	if nerv.IsSevered(anatomy.LeftArm) {
		t.Fatal("repair should reconnect the nerve")
	}
	if nerv.SignalAt(anatomy.LeftArm) <= 0 {
		t.Error("signal should start recovering after repair")
	}
}

func TestShockIsImmediate(t *testing.T) {
	b := newBody(t)
	nerv := b.Siblings().Nervous()

	b.Shock(50)

	// No Update yet: shock radiates synchronously from the brain.
	if got := nerv.SignalAt(anatomy.Head); got != 50 {
		t.Errorf("head signal = %v, want 50", got)
	}
	// One hop down the wave has faded.
	neck := nerv.SignalAt(anatomy.Neck)
	if neck <= 50 || neck >= 100 {
		t.Errorf("neck signal = %v, want attenuated drain", neck)
	}
}

func TestBleedCapAndClot(t *testing.T) {
	b := newBody(t)
	circ := b.Siblings().Circulatory()

	b.Bleed(anatomy.LeftArm, 50)
	b.Update()

	cap := config.Cfg().Circulatory.BleedCap
	if got := circ.BleedRateAt(anatomy.LeftArm); got != cap {
		t.Errorf("bleed rate = %v, want capped at %v", got, cap)
	}
	if blood := b.Ledger().Get(vitals.Blood); blood >= config.Cfg().Resources.Blood {
		t.Errorf("blood = %v, want drained below start", blood)
	}

	b.Clot(anatomy.LeftArm)
	b.Update()
	if circ.IsBleeding(anatomy.LeftArm) {
		t.Error("clot should stop the bleed")
	}
}

func TestMajorVesselBleedsHarder(t *testing.T) {
	b := newBody(t)
	circ := b.Siblings().Circulatory()

	b.TakeDamage(anatomy.Neck, 20)
	b.TakeDamage(anatomy.LeftArm, 20)
	b.Update()

	neck := circ.BleedRateAt(anatomy.Neck)
	arm := circ.BleedRateAt(anatomy.LeftArm)
	if neck <= arm {
		t.Errorf("neck bleed %v should exceed limb bleed %v", neck, arm)
	}
	if math.Abs(neck-arm*config.Cfg().Circulatory.MajorMultiple) > 1e-9 {
		t.Errorf("neck bleed %v, want %v x limb bleed %v", neck, config.Cfg().Circulatory.MajorMultiple, arm)
	}
}

func TestAmputateRemovesSubtreeEverywhere(t *testing.T) {
	b := newBody(t)

	b.Amputate(anatomy.LeftArm)
	b.Update()

	for _, sys := range b.Systems() {
		if _, ok := sys.Node(anatomy.LeftArm); ok {
			t.Errorf("%s still models the amputated arm", sys.Kind())
		}
		if _, ok := sys.Node(anatomy.LeftHand); ok {
			t.Errorf("%s still models the hand below the amputation", sys.Kind())
		}
	}
	if ok, reason := b.KineticChain(anatomy.LeftHand); ok {
		t.Error("chain to an amputated hand should be broken")
	} else if reason != "missing part: left_hand" {
		t.Errorf("reason = %q", reason)
	}
}

func TestAmputateRootIsNoop(t *testing.T) {
	b := newBody(t)

	b.Amputate(anatomy.Chest)
	b.Update()

	for _, sys := range b.Systems() {
		if _, ok := sys.Node(anatomy.Chest); !ok {
			t.Fatalf("%s lost its trunk to an illegal amputation", sys.Kind())
		}
	}
}

func TestApplyEffectTargetsOneSystem(t *testing.T) {
	b := newBody(t)

	b.ApplyEffect(anatomy.Chest, anatomy.Skeletal, events.Spread{
		InitialValue: 10,
		Falloff:      0.5,
		Gauge:        vitals.GaugeHealth,
		Decrease:     true,
	})
	b.Update()

	sk := b.Siblings().Skeletal()
	if got := sk.HealthAt(anatomy.Chest); got >= 100 {
		t.Errorf("chest bone health = %v, want reduced", got)
	}
	// One hop out the effect is halved.
	chestLoss := 100 - sk.HealthAt(anatomy.Chest)
	armLoss := 100 - sk.HealthAt(anatomy.LeftArm)
	if armLoss <= 0 || armLoss >= chestLoss {
		t.Errorf("arm loss %v should be attenuated below chest loss %v", armLoss, chestLoss)
	}

	// Untargeted systems never see the effect.
	if got := b.Siblings().Muscular().ForceOutput(anatomy.Chest); got <= 0 {
		t.Error("muscle should be untouched by a skeletal effect")
	}
	n, _ := b.Siblings().Nervous().Node(anatomy.Chest)
	if g, ok := n.Gauge(vitals.GaugeHealth); ok && g.Current() < 100 {
		t.Error("nerves should be untouched by a skeletal effect")
	}
}

func TestApplyEffectReachesSkin(t *testing.T) {
	b := newBody(t)
	skin := b.Siblings().Skin()

	b.ApplyEffect(anatomy.Chest, anatomy.Integumentary, events.Spread{
		InitialValue: 10,
		Falloff:      0.5,
		Gauge:        vitals.GaugeIntegrity,
		Decrease:     true,
	})
	b.Update()

	// 10 off at the start, then one tick of regen.
	want := 100 - 10 + config.Cfg().Skin.RegenRate
	if got := skin.IntegrityAt(anatomy.Chest); got != want {
		t.Errorf("chest skin integrity = %v, want %v", got, want)
	}
	chestLoss := 100 - skin.IntegrityAt(anatomy.Chest)
	armLoss := 100 - skin.IntegrityAt(anatomy.LeftArm)
	if armLoss <= 0 || armLoss >= chestLoss {
		t.Errorf("arm loss %v should be attenuated below chest loss %v", armLoss, chestLoss)
	}
}

func TestEffectSpreadAttenuatesPerHop(t *testing.T) {
	b := newBody(t)
	resp := b.Siblings().Respiratory()

	// Airway health does not regenerate, so each depth reads exactly
	// initial x (1-falloff)^k down the head-neck-chest chain.
	b.ApplyEffect(anatomy.Head, anatomy.Respiratory, events.Spread{
		InitialValue: 40,
		Falloff:      0.5,
		Gauge:        vitals.GaugeHealth,
		Decrease:     true,
	})
	b.Update()

	want := map[anatomy.Part]float64{
		anatomy.Head:  60,
		anatomy.Neck:  80,
		anatomy.Chest: 90,
	}
	for part, health := range want {
		n, ok := resp.Node(part)
		if !ok {
			t.Fatalf("missing airway node at %v", part)
		}
		g, _ := n.Gauge(vitals.GaugeHealth)
		if g.Current() != health {
			t.Errorf("%v airway health = %v, want %v", part, g.Current(), health)
		}
	}
}

func TestEffectSpreadStopsAtDisabledNode(t *testing.T) {
	b := newBody(t)
	resp := b.Siblings().Respiratory()

	neck, _ := resp.Node(anatomy.Neck)
	neck.base().disable()

	b.ApplyEffect(anatomy.Head, anatomy.Respiratory, events.Spread{
		InitialValue:    40,
		Falloff:         0.5,
		StopsAtDisabled: true,
		Gauge:           vitals.GaugeHealth,
		Decrease:        true,
	})
	b.Update()

	// The disabled segment still takes the hit; nothing below it does.
	g, _ := neck.Gauge(vitals.GaugeHealth)
	if g.Current() != 80 {
		t.Errorf("disabled neck health = %v, want 80", g.Current())
	}
	chest, _ := resp.Node(anatomy.Chest)
	g, _ = chest.Gauge(vitals.GaugeHealth)
	if g.Current() != 100 {
		t.Errorf("chest health = %v, want untouched below a disabled segment", g.Current())
	}
}

func TestInfectionGrowsAndCures(t *testing.T) {
	b := newBody(t)
	im := b.Siblings().Immune()

	b.Infect(anatomy.LeftArm, 30, 0.1)
	b.Update()

	// Grows 10%, then the immune fight claws one point back.
	want := 30*1.1 - config.Cfg().Immune.FightRate
	if got := im.InfectionAt(anatomy.LeftArm); math.Abs(got-want) > 1e-9 {
		t.Errorf("infection = %v, want %v", got, want)
	}
	if im.InflammationAt(anatomy.LeftArm) <= 0 {
		t.Error("a load past the threshold should inflame")
	}

	b.Cure(anatomy.LeftArm, 100, true, true)
	b.Update()
	if got := im.InfectionAt(anatomy.LeftArm); got != 0 {
		t.Errorf("infection after cure = %v, want 0", got)
	}
	if im.InflammationAt(anatomy.LeftArm) != 0 {
		t.Error("inflammation should subside with the infection gone")
	}
}

func TestOpenWoundSeedsBleedAndInfection(t *testing.T) {
	b := newBody(t)

	// A third-degree burn tears the skin open.
	b.Burn(anatomy.LeftArm, 75)
	if got := b.Siblings().Skin().BurnDegreeAt(anatomy.LeftArm); got != 3 {
		t.Fatalf("burn degree = %d, want 3 before any tick", got)
	}

	b.Update()

	if !b.Siblings().Circulatory().IsBleeding(anatomy.LeftArm) {
		t.Error("an open wound should start a bleed")
	}
	if b.Siblings().Immune().InfectionAt(anatomy.LeftArm) <= 0 {
		t.Error("an open wound should seed infection")
	}
}

func TestBandageClosesWound(t *testing.T) {
	b := newBody(t)

	b.Burn(anatomy.LeftArm, 75)
	b.Bandage(anatomy.LeftArm)
	b.Update()

	if !b.Siblings().Skin().Bandaged(anatomy.LeftArm) {
		t.Fatal("bandage should apply")
	}
	// The wound was covered before skin's first wound sweep.
	if b.Siblings().Circulatory().IsBleeding(anatomy.LeftArm) {
		t.Error("a bandaged wound must not bleed")
	}
}

func TestStarvationDecaysMuscle(t *testing.T) {
	b := newBody(t)

	// Empty the glucose pool; unmet needs accumulate tick over tick.
	b.Ledger().Remove(vitals.Glucose, config.Cfg().Resources.Glucose)
	b.TakeDamage(anatomy.LeftArm, 20)

	for i := 0; i < 40; i++ {
		// Metabolic burn would otherwise be fed by respiration's oxygen only.
		b.Ledger().Remove(vitals.Glucose, b.Ledger().Get(vitals.Glucose))
		b.Update()
	}

	mus := b.Siblings().Muscular()
	n, _ := mus.Node(anatomy.LeftArm)
	if n.Status().Starvation() != vitals.StarveSevere {
		t.Fatalf("starvation = %v, want severe", n.Status().Starvation())
	}
	g, _ := n.Gauge(vitals.GaugeHealth)
	if g.Current() >= 80 {
		t.Errorf("health = %v, want decayed below the post-hit level", g.Current())
	}
}

func TestFeedRefillsGlucose(t *testing.T) {
	b := newBody(t)

	b.Feed(50)
	b.Hydrate(50)
	b.Update()

	if got := b.Ledger().Get(vitals.Glucose); got <= config.Cfg().Resources.Glucose {
		t.Errorf("glucose = %v, want above start after feeding", got)
	}
	if got := b.Ledger().Get(vitals.Water); got <= config.Cfg().Resources.Water {
		t.Errorf("water = %v, want above start after hydrating", got)
	}
}

func TestExertDrainsStaminaUntilRest(t *testing.T) {
	b := newBody(t)
	mus := b.Siblings().Muscular()

	b.Exert(anatomy.LeftLeg, 5)
	b.Update()
	afterOne := mus.StaminaAt(anatomy.LeftLeg)
	if afterOne >= 100 {
		t.Fatalf("stamina = %v, want drained", afterOne)
	}

	b.Update()
	afterTwo := mus.StaminaAt(anatomy.LeftLeg)
	if afterTwo >= afterOne {
		t.Errorf("sustained exertion should keep draining: %v -> %v", afterOne, afterTwo)
	}

	b.Rest(anatomy.LeftLeg)
	for i := 0; i < 30; i++ {
		b.Update()
	}
	if got := mus.StaminaAt(anatomy.LeftLeg); got <= afterTwo {
		t.Errorf("stamina = %v, want recovering at rest", got)
	}
}

func TestFatigueRecoversOnEnergy(t *testing.T) {
	b := newBody(t)
	meta := b.Siblings().Metabolic()

	b.Fatigue(anatomy.Chest, 30)
	b.Update()
	first := meta.FatigueAt(anatomy.Chest)
	if first <= 0 || first >= 30 {
		t.Fatalf("fatigue = %v, want applied and partially recovered", first)
	}

	b.Update()
	if got := meta.FatigueAt(anatomy.Chest); got >= first {
		t.Errorf("fatigue = %v, want falling while energy lasts", got)
	}
}

func TestUpdateAdvancesTick(t *testing.T) {
	b := newBody(t)
	for i := 0; i < 3; i++ {
		b.Update()
	}
	if b.Tick() != 3 {
		t.Errorf("tick = %d, want 3", b.Tick())
	}
}

func TestSystemConditionFallsWithDamage(t *testing.T) {
	b := newBody(t)

	before := b.SystemCondition(anatomy.Skeletal)
	b.TakeDamage(anatomy.LeftLeg, 50)
	b.Update()
	after := b.SystemCondition(anatomy.Skeletal)

	if after >= before {
		t.Errorf("condition %v -> %v, want a drop", before, after)
	}
	if after < 0 || after > 1 {
		t.Errorf("condition %v out of [0,1]", after)
	}
}
