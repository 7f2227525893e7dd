package body

import "github.com/pthm-cable/soma/anatomy"

// Siblings is the read-only lookup table every system receives once all
// systems exist. Systems read (never write) sibling state during their own
// metabolic update; it is how muscle sees this tick's blood flow without a
// round trip through the bus.
//
// Wired in a second construction phase because the reference graph is
// mutual. A system must not be updated before wiring completes; Body
// enforces that at startup validation.
type Siblings struct {
	skin        *IntegumentarySystem
	skeletal    *SkeletalSystem
	circulatory *CirculatorySystem
	respiratory *RespiratorySystem
	muscular    *MuscularSystem
	immune      *ImmuneSystem
	nervous     *NervousSystem
	metabolic   *MetabolicSystem
}

func (s *Siblings) Skin() *IntegumentarySystem      { return s.skin }
func (s *Siblings) Skeletal() *SkeletalSystem       { return s.skeletal }
func (s *Siblings) Circulatory() *CirculatorySystem { return s.circulatory }
func (s *Siblings) Respiratory() *RespiratorySystem { return s.respiratory }
func (s *Siblings) Muscular() *MuscularSystem       { return s.muscular }
func (s *Siblings) Immune() *ImmuneSystem           { return s.immune }
func (s *Siblings) Nervous() *NervousSystem         { return s.nervous }
func (s *Siblings) Metabolic() *MetabolicSystem     { return s.metabolic }

// SystemInfo describes a system for telemetry and diagnostics.
// Centralized so output labels stay in sync with the engine.
type SystemInfo struct {
	Kind        anatomy.SystemKind
	ID          string // stable identifier used in CSV headers
	Name        string // display name
	Description string
}

// SystemCatalog lists every system in processing order.
func SystemCatalog() []SystemInfo {
	return []SystemInfo{
		{anatomy.Integumentary, "skin", "Integumentary", "Skin integrity, burns, bandages, wound sealing"},
		{anatomy.Skeletal, "skeletal", "Skeletal", "Bone health, fractures, calcium demand, marrow"},
		{anatomy.Circulatory, "circulatory", "Circulatory", "Blood flow, pressure, bleeding"},
		{anatomy.Respiratory, "respiratory", "Respiratory", "Airway, lung capacity, gas exchange"},
		{anatomy.Muscular, "muscular", "Muscular", "Strength, stamina, tears, exertion"},
		{anatomy.Immune, "immune", "Immune", "Infection, toxins, inflammation"},
		{anatomy.Nervous, "nervous", "Nervous", "Signal routing, pain, shock"},
		{anatomy.Metabolic, "metabolic", "Metabolic", "Temperature, fatigue, glucose burn"},
	}
}
