package i18n

import "testing"

func TestMatch_FallsBackToDefault(t *testing.T) {
	for _, locale := range []string{"", "xx-XX", "not a locale"} {
		c := Match(locale)
		if c.Locale() != "en-US" {
			t.Fatalf("Match(%q) locale = %s, want en-US", locale, c.Locale())
		}
	}
}

func TestMatch_ResolvesVariants(t *testing.T) {
	if c := Match("zh-TW"); c.Locale() != "zh-TW" {
		t.Fatalf("Match(zh-TW) = %s, want zh-TW", c.Locale())
	}
	if c := Match("en-GB"); c.Locale() != "en-US" {
		t.Fatalf("Match(en-GB) = %s, want en-US", c.Locale())
	}
}

func TestFormat_SubstitutesMetadata(t *testing.T) {
	c := Match("en-US")
	got := c.Format(KeyGroupFull, map[string]string{"Group": "2"})
	want := "Group 2 is full."
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestFormat_ChineseNumerals(t *testing.T) {
	c := Match("zh-TW")
	got := c.Format(KeyGroupFull, map[string]string{"Group": c.Ordinal(3)})
	want := "第三團名額已滿。"
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestFormat_UnknownKeyReturnsKey(t *testing.T) {
	c := Match("zh-TW")
	if got := c.Format("nope", nil); got != "nope" {
		t.Fatalf("Format = %q, want key echoed", got)
	}
}

func TestOrdinal(t *testing.T) {
	if got := Match("en-US").Ordinal(12); got != "12" {
		t.Fatalf("en ordinal = %q, want 12", got)
	}
	if got := Match("zh-TW").Ordinal(12); got != "十二" {
		t.Fatalf("zh ordinal = %q, want 十二", got)
	}
	if got := Match("zh-TW").Ordinal(42); got != "42" {
		t.Fatalf("zh ordinal out of table = %q, want 42", got)
	}
}
