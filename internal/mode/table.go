package mode

import "fmt"

// builtinModes is a curated subset of the DMT/CEA tables covering the
// resolutions the encoder IP is commonly paired with. Timings are the
// standard 60 Hz entries.
var builtinModes = []DisplayMode{
	{Name: "640x480", Clock: 25175,
		HDisplay: 640, HSyncStart: 656, HSyncEnd: 752, HTotal: 800,
		VDisplay: 480, VSyncStart: 490, VSyncEnd: 492, VTotal: 525,
		Flags: FlagNHSync | FlagNVSync, Type: TypeDriver},
	{Name: "800x600", Clock: 40000,
		HDisplay: 800, HSyncStart: 840, HSyncEnd: 968, HTotal: 1056,
		VDisplay: 600, VSyncStart: 601, VSyncEnd: 605, VTotal: 628,
		Flags: FlagPHSync | FlagPVSync, Type: TypeDriver},
	{Name: "1024x768", Clock: 65000,
		HDisplay: 1024, HSyncStart: 1048, HSyncEnd: 1184, HTotal: 1344,
		VDisplay: 768, VSyncStart: 771, VSyncEnd: 777, VTotal: 806,
		Flags: FlagNHSync | FlagNVSync, Type: TypeDriver},
	{Name: "1280x720", Clock: 74250,
		HDisplay: 1280, HSyncStart: 1390, HSyncEnd: 1430, HTotal: 1650,
		VDisplay: 720, VSyncStart: 725, VSyncEnd: 730, VTotal: 750,
		Flags: FlagPHSync | FlagPVSync, Type: TypeDriver},
	{Name: "1280x1024", Clock: 108000,
		HDisplay: 1280, HSyncStart: 1328, HSyncEnd: 1440, HTotal: 1688,
		VDisplay: 1024, VSyncStart: 1025, VSyncEnd: 1028, VTotal: 1066,
		Flags: FlagPHSync | FlagPVSync, Type: TypeDriver},
	{Name: "1366x768", Clock: 85500,
		HDisplay: 1366, HSyncStart: 1436, HSyncEnd: 1579, HTotal: 1792,
		VDisplay: 768, VSyncStart: 771, VSyncEnd: 774, VTotal: 798,
		Flags: FlagPHSync | FlagPVSync, Type: TypeDriver},
	{Name: "1440x900", Clock: 106500,
		HDisplay: 1440, HSyncStart: 1520, HSyncEnd: 1672, HTotal: 1904,
		VDisplay: 900, VSyncStart: 903, VSyncEnd: 909, VTotal: 934,
		Flags: FlagNHSync | FlagPVSync, Type: TypeDriver},
	{Name: "1600x1200", Clock: 162000,
		HDisplay: 1600, HSyncStart: 1664, HSyncEnd: 1856, HTotal: 2160,
		VDisplay: 1200, VSyncStart: 1201, VSyncEnd: 1204, VTotal: 1250,
		Flags: FlagPHSync | FlagPVSync, Type: TypeDriver},
	{Name: "1680x1050", Clock: 146250,
		HDisplay: 1680, HSyncStart: 1784, HSyncEnd: 1960, HTotal: 2240,
		VDisplay: 1050, VSyncStart: 1053, VSyncEnd: 1059, VTotal: 1089,
		Flags: FlagNHSync | FlagPVSync, Type: TypeDriver},
	{Name: "1920x1080", Clock: 148500,
		HDisplay: 1920, HSyncStart: 2008, HSyncEnd: 2052, HTotal: 2200,
		VDisplay: 1080, VSyncStart: 1084, VSyncEnd: 1089, VTotal: 1125,
		Flags: FlagPHSync | FlagPVSync, Type: TypeDriver},
}

// Fallback returns the builtin modes that fit within (hmax, vmax).
// The returned modes are copies; callers may set type bits freely.
func Fallback(hmax, vmax uint16) []DisplayMode {
	var out []DisplayMode
	for _, m := range builtinModes {
		if m.HDisplay <= hmax && m.VDisplay <= vmax {
			out = append(out, m)
		}
	}
	return out
}

// Estimate synthesizes a 60 Hz mode for an active size not covered by
// the builtin table, using generic blanking fractions. Only used to
// guarantee a preferred entry exists in the fallback list.
func Estimate(h, v uint16) DisplayMode {
	htotal := uint32(h) * 5 / 4
	vtotal := uint32(v) * 27 / 25
	hsyncStart := uint32(h) + (htotal-uint32(h))/4
	hsyncEnd := hsyncStart + (htotal-uint32(h))/4
	vsyncStart := uint32(v) + (vtotal-uint32(v))/4
	vsyncEnd := vsyncStart + 5

	return DisplayMode{
		Name:  fmt.Sprintf("%dx%d", h, v),
		Clock: htotal * vtotal * 60 / 1000,

		HDisplay: h, HSyncStart: uint16(hsyncStart),
		HSyncEnd: uint16(hsyncEnd), HTotal: uint16(htotal),

		VDisplay: v, VSyncStart: uint16(vsyncStart),
		VSyncEnd: uint16(vsyncEnd), VTotal: uint16(vtotal),

		Flags: FlagPHSync | FlagPVSync,
		Type:  TypeDriver,
	}
}
