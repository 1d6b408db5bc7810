package model

import "testing"

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"mp4", FormatMP4, false},
		{"mp3", FormatMP3, false},
		{"", "", true},
		{"mkv", "", true},
		{"MP4", "", true},
	}

	for _, test := range tests {
		got, err := ParseOutputFormat(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("ParseOutputFormat(%q) = %s, expected %s", test.input, got, test.want)
		}
	}
}

func TestOutputFormat_ContentType(t *testing.T) {
	if got := FormatMP4.ContentType(); got != "video/mp4" {
		t.Errorf("FormatMP4.ContentType() = %s, expected video/mp4", got)
	}
	if got := FormatMP3.ContentType(); got != "audio/mpeg" {
		t.Errorf("FormatMP3.ContentType() = %s, expected audio/mpeg", got)
	}
}

func TestVideoQuality_Rank(t *testing.T) {
	ordered := []VideoQuality{Video360p, Video480p, Video720p, Video1080p}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("expected %s to rank below %s", ordered[i-1], ordered[i])
		}
	}
	if VideoQuality("4k").Rank() != 0 {
		t.Error("unknown video tier should rank 0")
	}
}

func TestAudioQuality_Rank(t *testing.T) {
	ordered := []AudioQuality{Audio128kbps, Audio192kbps, Audio256kbps, Audio320kbps}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("expected %s to rank below %s", ordered[i-1], ordered[i])
		}
	}
	if AudioQuality("64kbps").Rank() != 0 {
		t.Error("unknown audio tier should rank 0")
	}
}

func TestAudioQuality_BitrateArg(t *testing.T) {
	tests := []struct {
		quality  AudioQuality
		expected string
	}{
		{Audio128kbps, "128k"},
		{Audio192kbps, "192k"},
		{Audio256kbps, "256k"},
		{Audio320kbps, "320k"},
		{"", "320k"}, // no preference falls back to the default target
	}

	for _, test := range tests {
		if got := test.quality.BitrateArg(); got != test.expected {
			t.Errorf("AudioQuality(%s).BitrateArg() = %s, expected %s", test.quality, got, test.expected)
		}
	}
}

func TestParseVideoQuality(t *testing.T) {
	if q, err := ParseVideoQuality(""); err != nil || q != "" {
		t.Errorf("ParseVideoQuality(\"\") = (%s, %v), expected no preference", q, err)
	}
	if _, err := ParseVideoQuality("720p"); err != nil {
		t.Errorf("ParseVideoQuality(720p) unexpected error: %v", err)
	}
	if _, err := ParseVideoQuality("240p"); err == nil {
		t.Error("ParseVideoQuality(240p) expected error, got nil")
	}
}

func TestParseAudioQuality(t *testing.T) {
	if q, err := ParseAudioQuality(""); err != nil || q != "" {
		t.Errorf("ParseAudioQuality(\"\") = (%s, %v), expected no preference", q, err)
	}
	if _, err := ParseAudioQuality("192kbps"); err != nil {
		t.Errorf("ParseAudioQuality(192kbps) unexpected error: %v", err)
	}
	if _, err := ParseAudioQuality("64kbps"); err == nil {
		t.Error("ParseAudioQuality(64kbps) expected error, got nil")
	}
}
