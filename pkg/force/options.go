package force

import "github.com/matzehuels/graphpos/pkg/graph"

// Options holds every simulation parameter.
//
// A MaxChargeDistance of zero or less removes the charge cutoff, so every
// pair interacts. A MinDistance of zero or less uses the default floor.
// Alpha is the starting energy, not a ceiling: Reheat and SetAlpha may
// raise the current energy above it, and it then cools toward AlphaTarget
// as usual.
type Options struct {
	LinkDistance    float64 `json:"link_distance" toml:"link_distance"`
	LinkStrength    float64 `json:"link_strength" toml:"link_strength"`
	ChargeStrength  float64 `json:"charge_strength" toml:"charge_strength"`
	CollisionRadius float64 `json:"collision_radius" toml:"collision_radius"`
	CenterStrength  float64 `json:"center_strength" toml:"center_strength"`
	CenterX         float64 `json:"center_x" toml:"center_x"`
	CenterY         float64 `json:"center_y" toml:"center_y"`
	AnchorNodeID    string  `json:"anchor_node_id,omitempty" toml:"anchor_node_id"`

	Alpha         float64 `json:"alpha" toml:"alpha"`
	AlphaMin      float64 `json:"alpha_min" toml:"alpha_min"`
	AlphaDecay    float64 `json:"alpha_decay" toml:"alpha_decay"`
	AlphaTarget   float64 `json:"alpha_target" toml:"alpha_target"`
	VelocityDecay float64 `json:"velocity_decay" toml:"velocity_decay"`

	MaxChargeDistance float64 `json:"max_charge_distance" toml:"max_charge_distance"`
	MinDistance       float64 `json:"min_distance" toml:"min_distance"`

	// Seed selects the noise field used to separate coincident nodes.
	Seed int64 `json:"seed" toml:"seed"`
}

// DefaultOptions returns the default simulation parameters.
func DefaultOptions() Options {
	return Options{
		LinkDistance:      120,
		LinkStrength:      0.1,
		ChargeStrength:    -20000,
		CollisionRadius:   40,
		CenterStrength:    0.02,
		Alpha:             1,
		AlphaMin:          0.001,
		AlphaDecay:        0.0228,
		AlphaTarget:       0,
		VelocityDecay:     0.4,
		MaxChargeDistance: 600,
		MinDistance:       20,
		Seed:              1,
	}
}

// Patch is a partial Options. Nil fields are left unchanged by Apply.
type Patch struct {
	LinkDistance    *float64 `json:"link_distance,omitempty" toml:"link_distance"`
	LinkStrength    *float64 `json:"link_strength,omitempty" toml:"link_strength"`
	ChargeStrength  *float64 `json:"charge_strength,omitempty" toml:"charge_strength"`
	CollisionRadius *float64 `json:"collision_radius,omitempty" toml:"collision_radius"`
	CenterStrength  *float64 `json:"center_strength,omitempty" toml:"center_strength"`
	CenterX         *float64 `json:"center_x,omitempty" toml:"center_x"`
	CenterY         *float64 `json:"center_y,omitempty" toml:"center_y"`
	AnchorNodeID    *string  `json:"anchor_node_id,omitempty" toml:"anchor_node_id"`

	Alpha         *float64 `json:"alpha,omitempty" toml:"alpha"`
	AlphaMin      *float64 `json:"alpha_min,omitempty" toml:"alpha_min"`
	AlphaDecay    *float64 `json:"alpha_decay,omitempty" toml:"alpha_decay"`
	AlphaTarget   *float64 `json:"alpha_target,omitempty" toml:"alpha_target"`
	VelocityDecay *float64 `json:"velocity_decay,omitempty" toml:"velocity_decay"`

	MaxChargeDistance *float64 `json:"max_charge_distance,omitempty" toml:"max_charge_distance"`
	MinDistance       *float64 `json:"min_distance,omitempty" toml:"min_distance"`

	Seed *int64 `json:"seed,omitempty" toml:"seed"`
}

// Float returns a pointer to v, for building a Patch.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s, for building a Patch.
func String(s string) *string { return &s }

// Int returns a pointer to v, for building a Patch.
func Int(v int64) *int64 { return &v }

// Apply returns o with every non-nil field of p merged in. Non-finite
// numbers are ignored, and Alpha and AlphaTarget are clamped to >= 0.
func (o Options) Apply(p Patch) Options {
	setFloat(&o.LinkDistance, p.LinkDistance)
	setFloat(&o.LinkStrength, p.LinkStrength)
	setFloat(&o.ChargeStrength, p.ChargeStrength)
	setFloat(&o.CollisionRadius, p.CollisionRadius)
	setFloat(&o.CenterStrength, p.CenterStrength)
	setFloat(&o.CenterX, p.CenterX)
	setFloat(&o.CenterY, p.CenterY)
	setFloat(&o.Alpha, p.Alpha)
	setFloat(&o.AlphaMin, p.AlphaMin)
	setFloat(&o.AlphaDecay, p.AlphaDecay)
	setFloat(&o.AlphaTarget, p.AlphaTarget)
	setFloat(&o.VelocityDecay, p.VelocityDecay)
	setFloat(&o.MaxChargeDistance, p.MaxChargeDistance)
	setFloat(&o.MinDistance, p.MinDistance)
	if p.AnchorNodeID != nil {
		o.AnchorNodeID = *p.AnchorNodeID
	}
	if p.Seed != nil {
		o.Seed = *p.Seed
	}
	o.Alpha = max(o.Alpha, 0)
	o.AlphaTarget = max(o.AlphaTarget, 0)
	return o
}

func setFloat(dst *float64, v *float64) {
	if v != nil && graph.Finite(*v) {
		*dst = *v
	}
}
