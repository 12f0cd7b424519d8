package internal

import (
	"encoding/json"
	"reflect"
	"testing"
)

func tracks(langs ...string) map[string]json.RawMessage {
	m := make(map[string]json.RawMessage, len(langs))
	for _, lang := range langs {
		m[lang] = json.RawMessage(`[]`)
	}
	return m
}

func TestOrderLanguages_PriorityFirst(t *testing.T) {
	got := OrderLanguages([]string{"de", "zh-Hant", "en", "fr"})
	want := []string{"en", "zh-Hant", "de", "fr"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestOrderLanguages_DropsDuplicates(t *testing.T) {
	got := OrderLanguages([]string{"en", "en", "fr", "fr"})
	want := []string{"en", "fr"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSelectLanguages_PriorityWins(t *testing.T) {
	meta := &VideoMetadata{Subtitles: tracks("fr", "zh-CN", "en-GB")}
	got := SelectLanguages(meta, 1)
	want := []string{"en-GB"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSelectLanguages_NoPriorityKeepsSortedOrder(t *testing.T) {
	meta := &VideoMetadata{Subtitles: tracks("fr", "de")}
	got := SelectLanguages(meta, 1)
	want := []string{"de"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSelectLanguages_AutoCaptionsFiltered(t *testing.T) {
	meta := &VideoMetadata{
		AutomaticCaptions: tracks("ru", "ja", "en-US", "zh-Hans"),
	}
	got := SelectLanguages(meta, 10)
	want := []string{"en-US", "zh-Hans"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSelectLanguages_ManualNotFiltered(t *testing.T) {
	meta := &VideoMetadata{Subtitles: tracks("ru")}
	got := SelectLanguages(meta, 1)
	want := []string{"ru"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("manual subtitle languages must not be filtered: got %v want %v", got, want)
	}
}

func TestSelectLanguages_FallbackToDeclaredLanguage(t *testing.T) {
	meta := &VideoMetadata{Language: "ko"}
	got := SelectLanguages(meta, 1)
	want := []string{"ko"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSelectLanguages_FallbackToEnglish(t *testing.T) {
	got := SelectLanguages(&VideoMetadata{}, 1)
	want := []string{"en"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSelectLanguages_RespectsMaxLanguages(t *testing.T) {
	meta := &VideoMetadata{Subtitles: tracks("en", "en-GB", "zh-Hans", "fr")}
	got := SelectLanguages(meta, 2)
	want := []string{"en", "en-GB"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	if got := SelectLanguages(meta, 0); len(got) != 1 {
		t.Fatalf("maxLanguages below 1 must still select one language, got %v", got)
	}
}

func TestSourceForLanguage(t *testing.T) {
	meta := &VideoMetadata{
		Subtitles:         tracks("en"),
		AutomaticCaptions: tracks("en", "zh-Hans"),
	}
	if got := SourceForLanguage(meta, "en"); got != SourceManual {
		t.Fatalf("got %q want %q", got, SourceManual)
	}
	if got := SourceForLanguage(meta, "zh-Hans"); got != SourceAuto {
		t.Fatalf("got %q want %q", got, SourceAuto)
	}
}
