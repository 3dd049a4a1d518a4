package metadata

import "testing"

func TestNormalize_BasicFields(t *testing.T) {
	rec := Normalize(map[string]string{
		"artist": "  Deep Dish ",
		"title":  "Flashdance",
		"album":  "George Is On",
		"label":  "Deconstruction",
	})

	tests := []struct {
		field Field
		want  string
	}{
		{FieldArtist, "Deep Dish"},
		{FieldTitle, "Flashdance"},
		{FieldAlbum, "George Is On"},
		{FieldLabel, "Deconstruction"},
	}

	for _, tt := range tests {
		got, ok := rec.Get(tt.field)
		if !ok || got != tt.want {
			t.Errorf("Get(%s) = %q, %v, want %q", tt.field, got, ok, tt.want)
		}
	}

	if _, ok := rec.Get(FieldBPM); ok {
		t.Error("bpm should be absent when no raw value exists")
	}
}

func TestNormalize_Year(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2023", "2023"},
		{"2023-05-15", "2023"},
		{"released 1997", "1997"},
		{"n/a", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rec := Normalize(map[string]string{"year": tt.raw})
			got, ok := rec.Get(FieldYear)
			if tt.want == "" {
				if ok {
					t.Errorf("year = %q, want absent", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("year = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_BPM(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"128", "128"},
		{"123.97", "124"},
		{"174.0", "174"},
		{"fast", ""},
		{"0", ""},
		{"-10", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rec := Normalize(map[string]string{"bpm": tt.raw})
			got, ok := rec.Get(FieldBPM)
			if tt.want == "" {
				if ok {
					t.Errorf("bpm = %q, want absent", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("bpm = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_Track(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"5", "05"},
		{"5/12", "05"},
		{"12", "12"},
		{"120", "120"},
		{"A1", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rec := Normalize(map[string]string{"track": tt.raw})
			got, ok := rec.Get(FieldTrack)
			if tt.want == "" {
				if ok {
					t.Errorf("track = %q, want absent", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("track = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_KeyAndCamelot(t *testing.T) {
	rec := Normalize(map[string]string{"key": "Fm"})

	if got, _ := rec.Get(FieldKey); got != "Fm" {
		t.Errorf("key = %q, want %q", got, "Fm")
	}
	if got, _ := rec.Get(FieldCamelot); got != "4A" {
		t.Errorf("camelot = %q, want %q", got, "4A")
	}

	rec = Normalize(map[string]string{"key": "8A"})
	if got, _ := rec.Get(FieldKey); got != "Am" {
		t.Errorf("key from wheel code = %q, want %q", got, "Am")
	}

	rec = Normalize(map[string]string{"key": "not a key"})
	if _, ok := rec.Get(FieldKey); ok {
		t.Error("unrecognized key should leave the field absent")
	}
	if _, ok := rec.Get(FieldCamelot); ok {
		t.Error("unrecognized key should leave camelot absent")
	}
}

func TestNormalize_MixFromTitleSuffix(t *testing.T) {
	tests := []struct {
		title     string
		mixTag    string
		wantTitle string
		wantMix   string
	}{
		{"One More Time (Extended Mix)", "", "One More Time", "Extended Mix"},
		{"One More Time (Club Edit)", "", "One More Time", "Club Edit"},
		{"Strobe (Radio Version)", "", "Strobe", "Radio Version"},
		{"Around the World (feat. Nobody)", "", "Around the World (feat. Nobody)", ""},
		{"Plain Title", "", "Plain Title", ""},
		{"Song (Extended Mix)", "Original Mix", "Song", "Original Mix"},
		{"Plain Title", "Dub Mix", "Plain Title", "Dub Mix"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			raw := map[string]string{"title": tt.title}
			if tt.mixTag != "" {
				raw["mix"] = tt.mixTag
			}
			rec := Normalize(raw)

			gotTitle, _ := rec.Get(FieldTitle)
			if gotTitle != tt.wantTitle {
				t.Errorf("title = %q, want %q", gotTitle, tt.wantTitle)
			}

			gotMix, ok := rec.Get(FieldMix)
			if tt.wantMix == "" {
				if ok {
					t.Errorf("mix = %q, want absent", gotMix)
				}
				return
			}
			if gotMix != tt.wantMix {
				t.Errorf("mix = %q, want %q", gotMix, tt.wantMix)
			}
		})
	}
}

func TestRecord_Has(t *testing.T) {
	rec := New(map[Field]string{
		FieldKey: "Fm",
		FieldBPM: "124",
	})

	if !rec.Has(FieldKey, FieldBPM) {
		t.Error("Has(key, bpm) = false, want true")
	}
	if rec.Has(FieldKey, FieldMix) {
		t.Error("Has(key, mix) = true, want false")
	}
	if rec.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rec.Len())
	}
}
