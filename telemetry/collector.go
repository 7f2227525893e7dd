package telemetry

import (
	"github.com/pthm-cable/soma/anatomy"
	"github.com/pthm-cable/soma/body"
	"github.com/pthm-cable/soma/vitals"
)

// TickRecord is one CSV row of engine state.
type TickRecord struct {
	Tick int64 `csv:"tick"`

	// Shared pool levels
	Oxygen  float64 `csv:"oxygen"`
	Glucose float64 `csv:"glucose"`
	Water   float64 `csv:"water"`
	Blood   float64 `csv:"blood"`
	Calcium float64 `csv:"calcium"`
	Energy  float64 `csv:"energy"`
	CO2     float64 `csv:"co2"`

	// Per-system condition (mean primary-gauge fraction)
	Skin        float64 `csv:"skin"`
	Skeletal    float64 `csv:"skeletal"`
	Circulatory float64 `csv:"circulatory"`
	Respiratory float64 `csv:"respiratory"`
	Muscular    float64 `csv:"muscular"`
	Immune      float64 `csv:"immune"`
	Nervous     float64 `csv:"nervous"`
	Metabolic   float64 `csv:"metabolic"`

	// Headline vitals
	Airflow        float64 `csv:"airflow"`
	Pressure       float64 `csv:"pressure"`
	BleedingParts  int     `csv:"bleeding_parts"`
	Fractures      int     `csv:"fractures"`
	TotalInfection float64 `csv:"total_infection"`
	PainLevel      float64 `csv:"pain_level"`

	// Condition distribution across every node in every system
	CondMean float64 `csv:"cond_mean"`
	CondP10  float64 `csv:"cond_p10"`
	CondP50  float64 `csv:"cond_p50"`
	CondP90  float64 `csv:"cond_p90"`
}

// Collector samples a body into TickRecords.
type Collector struct {
	// Reusable buffer to avoid allocations
	fractions []float64
}

// NewCollector returns a collector.
func NewCollector() *Collector {
	return &Collector{fractions: make([]float64, 0, 96)}
}

// Collect samples the body's current state into a record.
func (c *Collector) Collect(b *body.Body) TickRecord {
	sib := b.Siblings()
	ledger := b.Ledger()

	c.fractions = c.fractions[:0]
	for _, sys := range b.Systems() {
		for _, part := range sys.Parts() {
			n, _ := sys.Node(part)
			if g, ok := n.Gauge(vitals.GaugeHealth); ok {
				c.fractions = append(c.fractions, g.Fraction())
			} else if g, ok := n.Gauge(vitals.GaugeIntegrity); ok {
				c.fractions = append(c.fractions, g.Fraction())
			}
		}
	}
	cond := ComputeConditionStats(c.fractions)

	return TickRecord{
		Tick: b.Tick(),

		Oxygen:  ledger.Get(vitals.Oxygen),
		Glucose: ledger.Get(vitals.Glucose),
		Water:   ledger.Get(vitals.Water),
		Blood:   ledger.Get(vitals.Blood),
		Calcium: ledger.Get(vitals.Calcium),
		Energy:  ledger.Get(vitals.Energy),
		CO2:     ledger.Get(vitals.CO2),

		Skin:        b.SystemCondition(anatomy.Integumentary),
		Skeletal:    b.SystemCondition(anatomy.Skeletal),
		Circulatory: b.SystemCondition(anatomy.Circulatory),
		Respiratory: b.SystemCondition(anatomy.Respiratory),
		Muscular:    b.SystemCondition(anatomy.Muscular),
		Immune:      b.SystemCondition(anatomy.Immune),
		Nervous:     b.SystemCondition(anatomy.Nervous),
		Metabolic:   b.SystemCondition(anatomy.Metabolic),

		Airflow:        sib.Respiratory().AirflowReachingLungs(),
		Pressure:       sib.Circulatory().Pressure(),
		BleedingParts:  len(sib.Circulatory().Bleeding()),
		Fractures:      len(sib.Skeletal().Fractured()),
		TotalInfection: sib.Immune().TotalInfection(),
		PainLevel:      sib.Nervous().PainLevel(),

		CondMean: cond.Mean,
		CondP10:  cond.P10,
		CondP50:  cond.P50,
		CondP90:  cond.P90,
	}
}
