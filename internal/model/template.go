package model

// CallToAction is a labelled link rendered under a result
type CallToAction struct {
	Label string `json:"label" bson:"label" yaml:"label"`
	Href  string `json:"href" bson:"href" yaml:"href"`
}

// ResultTemplate holds the copy shown for a winning category
type ResultTemplate struct {
	Title        string        `json:"title" bson:"title" yaml:"title"`
	MainMessage  string        `json:"mainMessage" bson:"mainMessage" yaml:"mainMessage"`
	PriceNote    string        `json:"priceNote,omitempty" bson:"priceNote,omitempty" yaml:"priceNote,omitempty"`
	Tips         []string      `json:"tips" bson:"tips" yaml:"tips"`
	CTA          *CallToAction `json:"cta,omitempty" bson:"cta,omitempty" yaml:"cta,omitempty"`
	SecondaryCTA *CallToAction `json:"secondaryCta,omitempty" bson:"secondaryCta,omitempty" yaml:"secondaryCta,omitempty"`
}

// ResultTemplateSet is the per-category template collection
type ResultTemplateSet struct {
	Version   string                         `json:"version" bson:"_id" yaml:"version"`
	Locale    string                         `json:"locale,omitempty" bson:"locale,omitempty" yaml:"locale,omitempty"`
	Templates map[CategoryKey]ResultTemplate `json:"templates" bson:"templates" yaml:"templates"`
}

// Template looks up the template for a category
func (s *ResultTemplateSet) Template(key CategoryKey) *ResultTemplate {
	if s == nil {
		return nil
	}
	t, ok := s.Templates[key]
	if !ok {
		return nil
	}
	return &t
}
