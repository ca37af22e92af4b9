package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFlashRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	setFlash(w, FlashSuccess, "Gift added successfully!")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != flashCookie {
		t.Fatalf("cookies = %+v", cookies)
	}

	r := httptest.NewRequest(http.MethodGet, "/gifts", nil)
	r.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	flashes := popFlashes(w2, r)

	if len(flashes) != 1 || flashes[0].Category != FlashSuccess || flashes[0].Message != "Gift added successfully!" {
		t.Errorf("flashes = %+v", flashes)
	}
	cleared := w2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("flash cookie not cleared: %+v", cleared)
	}
}

func TestPopFlashes_NoCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	if got := popFlashes(w, r); got != nil {
		t.Errorf("popFlashes() = %+v, want nil", got)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("cookie written without a pending flash")
	}
}

func TestPopFlashes_Garbage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%not-base64"})
	w := httptest.NewRecorder()

	if got := popFlashes(w, r); got != nil {
		t.Errorf("popFlashes() = %+v, want nil", got)
	}
}
