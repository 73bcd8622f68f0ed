// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	ids := []Id{
		InvalidShardId,
		MissingRequiredOptionId,
		EnvConversionFailedId,
		ConfigLoadFailedId,
		EnvFileLoadFailedId,
		UnsupportedSettingId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}
	if InvalidShardId != 1 {
		t.Errorf("InvalidShardId = %d, want 1", InvalidShardId)
	}
	if len(issues) != len(ids) {
		t.Errorf("catalog has %d issues, want %d", len(issues), len(ids))
	}
}

func TestValues_Ordered(t *testing.T) {
	t.Parallel()

	values := Values()
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Fatalf("Values() not ordered at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_ExtLinks_ReturnsCopy(t *testing.T) {
	t.Parallel()

	iss := Get(ConfigLoadFailedId)
	links := iss.ExtLinks()
	if len(links) == 0 {
		t.Fatal("ConfigLoadFailed should carry external links")
	}
	links[0] = "mutated"
	if iss.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks() must return a copy")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	t.Parallel()

	for _, iss := range Values() {
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no message", iss.Id())
			continue
		}
		out, err := iss.Render("notty")
		if err != nil {
			t.Errorf("issue %d Render() error: %v", iss.Id(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("issue %d rendered empty", iss.Id())
		}
	}

	out, err := Get(ConfigLoadFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "See also") || !strings.Contains(out, "toml.io") {
		t.Errorf("Render() should list external links, got %q", out)
	}
}
