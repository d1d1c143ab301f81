package model

// EffectOp names a state instruction attached to an option
type EffectOp string

const (
	EffectSetMode              EffectOp = "setMode"
	EffectSetSegments          EffectOp = "setSegments"
	EffectAddSegments          EffectOp = "addSegments"
	EffectRemoveSegments       EffectOp = "removeSegments"
	EffectSkipCommon           EffectOp = "skipCommon"
	EffectClearPreferredWeight EffectOp = "clearPreferredWeight"
	EffectClearPreferredModels EffectOp = "clearPreferredModels"
	EffectSetPreferredModels   EffectOp = "setPreferredModels"
	EffectAddPreferredModels   EffectOp = "addPreferredModels"
	EffectForceComplete        EffectOp = "forceComplete"
	EffectClearSummary         EffectOp = "clearSummary"
	EffectSetSummary           EffectOp = "setSummary"
	EffectAppendSummary        EffectOp = "appendSummary"
)

// KnownEffectOps lists every op the engine understands
var KnownEffectOps = []EffectOp{
	EffectSetMode,
	EffectSetSegments,
	EffectAddSegments,
	EffectRemoveSegments,
	EffectSkipCommon,
	EffectClearPreferredWeight,
	EffectClearPreferredModels,
	EffectSetPreferredModels,
	EffectAddPreferredModels,
	EffectForceComplete,
	EffectClearSummary,
	EffectSetSummary,
	EffectAppendSummary,
}

// Known reports whether op is one of KnownEffectOps
func (op EffectOp) Known() bool {
	for _, k := range KnownEffectOps {
		if k == op {
			return true
		}
	}
	return false
}

// Mode is the coarse flow the diagnosis is running in
type Mode string

const (
	ModeUndetermined Mode = "undetermined"
	ModeLight        Mode = "light"
	ModePro          Mode = "pro"
)

// Effect is one instruction. Which payload field is read depends on Op:
// Mode for setMode, Values for segment and model lists, Text for summaries.
type Effect struct {
	Op     EffectOp `json:"op" bson:"op" yaml:"op"`
	Mode   Mode     `json:"mode,omitempty" bson:"mode,omitempty" yaml:"mode,omitempty"`
	Values []string `json:"values,omitempty" bson:"values,omitempty" yaml:"values,omitempty"`
	Text   string   `json:"text,omitempty" bson:"text,omitempty" yaml:"text,omitempty"`
}
