package domain

// DamageType is the closed set of weapon damage types, in the rulebook's
// German terms.
type DamageType string

const (
	DamageSlashing    DamageType = "hieb"
	DamagePiercing    DamageType = "stich"
	DamageBludgeoning DamageType = "wucht"
)

// Valid reports whether the value is one of the three damage types.
func (d DamageType) Valid() bool {
	switch d {
	case DamageSlashing, DamagePiercing, DamageBludgeoning:
		return true
	}
	return false
}

// Label returns the display form.
func (d DamageType) Label() string {
	switch d {
	case DamageSlashing:
		return "Hieb"
	case DamagePiercing:
		return "Stich"
	case DamageBludgeoning:
		return "Wucht"
	}
	return string(d)
}

// WeaponCategory is the closed set of weapon categories.
type WeaponCategory string

const (
	WeaponSimpleMelee   WeaponCategory = "simple_melee"
	WeaponSimpleRanged  WeaponCategory = "simple_ranged"
	WeaponMartialMelee  WeaponCategory = "martial_melee"
	WeaponMartialRanged WeaponCategory = "martial_ranged"
)

// Valid reports whether the value is one of the four weapon categories.
func (c WeaponCategory) Valid() bool {
	switch c {
	case WeaponSimpleMelee, WeaponSimpleRanged, WeaponMartialMelee, WeaponMartialRanged:
		return true
	}
	return false
}

// Label returns the rulebook's group heading for the category.
func (c WeaponCategory) Label() string {
	switch c {
	case WeaponSimpleMelee, WeaponSimpleRanged:
		return "Einfache Waffen"
	case WeaponMartialMelee, WeaponMartialRanged:
		return "Kriegswaffen"
	}
	return string(c)
}

// ArmorCategory is the closed set of armor categories.
type ArmorCategory string

const (
	ArmorLight  ArmorCategory = "leichte_ruestung"
	ArmorMedium ArmorCategory = "mittelschwere_ruestung"
	ArmorHeavy  ArmorCategory = "schwere_ruestung"
	ArmorShield ArmorCategory = "schild"
)

// Valid reports whether the value is one of the four armor categories.
func (c ArmorCategory) Valid() bool {
	switch c {
	case ArmorLight, ArmorMedium, ArmorHeavy, ArmorShield:
		return true
	}
	return false
}

// Label returns the display form.
func (c ArmorCategory) Label() string {
	switch c {
	case ArmorLight:
		return "Leichte Rüstung"
	case ArmorMedium:
		return "Mittelschwere Rüstung"
	case ArmorHeavy:
		return "Schwere Rüstung"
	case ArmorShield:
		return "Schild"
	}
	return string(c)
}
