package config

// StringValue represents a string configuration value with its source.
type StringValue struct {
	Value  string
	Source ConfigSource
}

// FloatValue represents a float configuration value with its source.
type FloatValue struct {
	Value  float64
	Source ConfigSource
}

// BoolValue represents a bool configuration value with its source.
type BoolValue struct {
	Value  bool
	Source ConfigSource
}

// NewStringValue creates a new StringValue with default source.
func NewStringValue(value string) StringValue {
	return StringValue{Value: value, Source: SourceDefault}
}

// NewFloatValue creates a new FloatValue with default source.
func NewFloatValue(value float64) FloatValue {
	return FloatValue{Value: value, Source: SourceDefault}
}

// NewBoolValue creates a new BoolValue with default source.
func NewBoolValue(value bool) BoolValue {
	return BoolValue{Value: value, Source: SourceDefault}
}

func (v *StringValue) fromFile(p *string) {
	if p != nil {
		v.Value, v.Source = *p, SourceConfigFile
	}
}

func (v *FloatValue) fromFile(p *float64) {
	if p != nil {
		v.Value, v.Source = *p, SourceConfigFile
	}
}

func (v *BoolValue) fromFile(p *bool) {
	if p != nil {
		v.Value, v.Source = *p, SourceConfigFile
	}
}
