package main

import (
	"fmt"
	"testing"
)

func TestKillFeedExpiry(t *testing.T) {
	var k KillFeed
	k.Add("first")
	k.Update(3)
	k.Add("second")
	k.Update(2.5)
	if got := k.Messages(); len(got) != 1 || got[0] != "second" {
		t.Errorf("expected only the second message, got %v", got)
	}
	k.Update(3)
	if k.Len() != 0 {
		t.Errorf("expected an empty feed, got %d", k.Len())
	}
}

func TestKillFeedShowsOldestFirst(t *testing.T) {
	var k KillFeed
	for i := 0; i < 6; i++ {
		k.Add(fmt.Sprintf("m%d", i))
	}
	got := k.Messages()
	if len(got) != KillfeedVisible {
		t.Fatalf("expected %d visible, got %d", KillfeedVisible, len(got))
	}
	for i, m := range got {
		if m != fmt.Sprintf("m%d", i) {
			t.Errorf("position %d: got %q", i, m)
		}
	}
	if k.Len() != 6 {
		t.Errorf("hidden messages should be kept, len %d", k.Len())
	}
}
