package mode

import "testing"

func TestVRefresh(t *testing.T) {
	tests := []struct {
		name string
		m    DisplayMode
		want int
	}{
		{
			name: "720p60",
			m:    DisplayMode{Clock: 74250, HTotal: 1650, VTotal: 750},
			want: 60,
		},
		{
			name: "1080p60",
			m:    DisplayMode{Clock: 148500, HTotal: 2200, VTotal: 1125},
			want: 60,
		},
		{
			name: "vga",
			m:    DisplayMode{Clock: 25175, HTotal: 800, VTotal: 525},
			want: 59,
		},
		{
			name: "zero totals",
			m:    DisplayMode{Clock: 74250},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.VRefresh(); got != tt.want {
				t.Errorf("VRefresh() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToTiming(t *testing.T) {
	m := DisplayMode{
		Clock:    74250,
		HDisplay: 1280, HSyncStart: 1390, HSyncEnd: 1430, HTotal: 1650,
		VDisplay: 720, VSyncStart: 725, VSyncEnd: 730, VTotal: 750,
		Flags: FlagPHSync | FlagPVSync,
	}

	vt := m.ToTiming()

	if vt.PixelClockHz != 74250000 {
		t.Errorf("PixelClockHz = %d, want 74250000", vt.PixelClockHz)
	}
	if vt.HActive != 1280 || vt.HFrontPorch != 110 || vt.HSyncLen != 40 || vt.HBackPorch != 220 {
		t.Errorf("horizontal timing = %d/%d/%d/%d, want 1280/110/40/220",
			vt.HActive, vt.HFrontPorch, vt.HSyncLen, vt.HBackPorch)
	}
	if vt.VActive != 720 || vt.VFrontPorch != 5 || vt.VSyncLen != 5 || vt.VBackPorch != 20 {
		t.Errorf("vertical timing = %d/%d/%d/%d, want 720/5/5/20",
			vt.VActive, vt.VFrontPorch, vt.VSyncLen, vt.VBackPorch)
	}
	if !vt.HSyncPositive || !vt.VSyncPositive {
		t.Error("expected positive sync polarity on both axes")
	}
}

func TestFallbackFiltering(t *testing.T) {
	modes := Fallback(1280, 1024)

	if len(modes) == 0 {
		t.Fatal("expected fallback modes")
	}
	for _, m := range modes {
		if m.HDisplay > 1280 || m.VDisplay > 1024 {
			t.Errorf("mode %s exceeds 1280x1024", m.String())
		}
	}

	// The ceiling mode itself must be included.
	found := false
	for _, m := range modes {
		if m.HDisplay == 1280 && m.VDisplay == 1024 {
			found = true
		}
	}
	if !found {
		t.Error("expected 1280x1024 itself in the fallback list")
	}
}

func TestFallbackCopies(t *testing.T) {
	a := Fallback(1920, 1080)
	a[0].Type |= TypePreferred

	b := Fallback(1920, 1080)
	if b[0].Type&TypePreferred != 0 {
		t.Error("Fallback must return copies, builtin table was mutated")
	}
}

func TestEstimate(t *testing.T) {
	m := Estimate(1152, 864)

	if m.HDisplay != 1152 || m.VDisplay != 864 {
		t.Fatalf("active size = %dx%d, want 1152x864", m.HDisplay, m.VDisplay)
	}
	if m.HTotal <= m.HSyncEnd || m.HSyncEnd <= m.HSyncStart || m.HSyncStart <= m.HDisplay {
		t.Errorf("horizontal ordering broken: %d < %d < %d < %d",
			m.HDisplay, m.HSyncStart, m.HSyncEnd, m.HTotal)
	}
	if m.VTotal <= m.VSyncEnd || m.VSyncEnd <= m.VSyncStart || m.VSyncStart <= m.VDisplay {
		t.Errorf("vertical ordering broken: %d < %d < %d < %d",
			m.VDisplay, m.VSyncStart, m.VSyncEnd, m.VTotal)
	}

	// The synthesized timing should land near 60 Hz.
	if r := m.VRefresh(); r < 55 || r > 62 {
		t.Errorf("VRefresh() = %d, want close to 60", r)
	}
}
