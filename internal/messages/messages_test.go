package messages

import "testing"

func TestT(t *testing.T) {
	if got := T(LangEN, MsgTrialUsed); got != "You have already used your trial" {
		t.Errorf("T(en) = %q", got)
	}
	if got := T(LangVI, MsgTrialUsed); got != "Bạn đã dùng thử trước đó" {
		t.Errorf("T(vi) = %q", got)
	}
	// Unknown languages fall back to Vietnamese.
	if got := T("de", MsgTrialUsed); got != T(LangVI, MsgTrialUsed) {
		t.Errorf("T(de) = %q, want Vietnamese fallback", got)
	}
	// Unknown keys come back verbatim so a miss is visible, not empty.
	if got := T(LangEN, "no_such_key"); got != "no_such_key" {
		t.Errorf("T(unknown key) = %q", got)
	}
}

func TestCatalogsCover(t *testing.T) {
	for key := range vi {
		if _, ok := en[key]; !ok {
			t.Errorf("English catalog is missing %q", key)
		}
	}
	for key := range en {
		if _, ok := vi[key]; !ok {
			t.Errorf("Vietnamese catalog is missing %q", key)
		}
	}
}
