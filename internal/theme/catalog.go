package theme

// catalog 是每类区块允许的布局变体，顺序即展示顺序，
// 首项同时充当未知变体的回退值。
var catalog = map[SectionKind][]Variant{
	SectionHero:       {VariantStandard, VariantCentered, VariantSplit, VariantMinimal},
	SectionAbout:      {VariantCentered, VariantStandard},
	SectionExperience: {VariantStandard, VariantSplit, VariantCards, VariantMinimal},
	SectionProjects:   {VariantGrid, VariantCards, VariantStandard, VariantMinimal},
	SectionEducation:  {VariantStandard, VariantCards},
	SectionContact:    {VariantCentered, VariantSplit, VariantMinimal},
}

// kindOrder 是区块类别的固定遍历顺序。
var kindOrder = []SectionKind{
	SectionHero,
	SectionAbout,
	SectionExperience,
	SectionProjects,
	SectionEducation,
	SectionContact,
}

// Kinds 返回全部区块类别，顺序固定。
func Kinds() []SectionKind {
	out := make([]SectionKind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// KnownKind 判断 kind 是否为已登记的区块类别。
func KnownKind(kind SectionKind) bool {
	_, ok := catalog[kind]
	return ok
}

// Variants 返回某类区块的全部合法变体，调用方不得修改返回值。
func Variants(kind SectionKind) []Variant {
	vs := catalog[kind]
	out := make([]Variant, len(vs))
	copy(out, vs)
	return out
}

// IsValidVariant 判断变体对该类区块是否合法。
func IsValidVariant(kind SectionKind, v Variant) bool {
	for _, c := range catalog[kind] {
		if c == v {
			return true
		}
	}
	return false
}

// DefaultVariant 返回该类区块的回退变体。未知类别返回 standard。
func DefaultVariant(kind SectionKind) Variant {
	if vs, ok := catalog[kind]; ok {
		return vs[0]
	}
	return VariantStandard
}

// ClampVariant 合法则原样返回，否则返回该类别的回退变体。
func ClampVariant(kind SectionKind, v Variant) Variant {
	if IsValidVariant(kind, v) {
		return v
	}
	return DefaultVariant(kind)
}
